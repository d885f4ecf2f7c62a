package publish

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher uploads finished artifacts.
type Publisher interface {
	Publish(ctx context.Context, runID string, paths ...string) ([]Object, error)
}

// ObjectClient is the part of the S3 client used for uploads.
type ObjectClient interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Object is one uploaded artifact.
type Object struct {
	Bucket string
	Key    string
	Size   int64
}
