// Package publish uploads report artifacts to an S3-compatible bucket.
package publish

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
}

type service struct {
	cfg    Config
	client ObjectClient
	log    logger.Logger
}

type Option func(*service)

// WithClient replaces the S3 client built from the default AWS credential
// chain.
func WithClient(client ObjectClient) Option {
	return func(s *service) {
		s.client = client
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *service) {
		s.log = l
	}
}

// NewService returns a Publisher for cfg, or one that does nothing when no
// bucket is configured.
func NewService(ctx context.Context, cfg Config, opts ...Option) (Publisher, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	if !cfg.Enabled() {
		return Nop(), nil
	}

	s := &service{cfg: cfg, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("publish")

	if s.client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, errFactory.Wrap(ErrClientInit, err)
		}
		s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.PathStyle
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		})
	}

	return s, nil
}

// Publish uploads each path under the configured prefix, keyed by file name.
// It stops at the first failure.
func (s *service) Publish(ctx context.Context, runID string, paths ...string) ([]Object, error) {
	objects := make([]Object, 0, len(paths))
	for _, p := range paths {
		obj, err := s.put(ctx, runID, p)
		if err != nil {
			return objects, err
		}
		objects = append(objects, obj)
		s.log.Info().Str("bucket", obj.Bucket).Str("key", obj.Key).Int64("bytes", obj.Size).Msg("Published artifact")
	}
	return objects, nil
}

func (s *service) put(ctx context.Context, runID, p string) (Object, error) {
	errFactory := errors.New()

	select {
	case <-ctx.Done():
		return Object{}, errFactory.Wrap(ErrUploadTimeout, ctx.Err())
	default:
	}

	f, err := os.Open(p)
	if err != nil {
		return Object{}, errFactory.Wrap(ErrOpenArtifact, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Object{}, errFactory.Wrap(ErrOpenArtifact, err)
	}

	obj := Object{
		Bucket: s.cfg.Bucket,
		Key:    path.Join(s.cfg.Prefix, filepath.Base(p)),
		Size:   info.Size(),
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(obj.Bucket),
		Key:           aws.String(obj.Key),
		Body:          f,
		ContentLength: aws.Int64(obj.Size),
	}
	if ct, ok := contentTypes[filepath.Ext(p)]; ok {
		in.ContentType = aws.String(ct)
	}
	if runID != "" {
		in.Metadata = map[string]string{"run-id": runID}
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return Object{}, errFactory.Wrap(ErrUpload, err).WithData(struct {
			Bucket string
			Key    string
		}{obj.Bucket, obj.Key})
	}

	return obj, nil
}

type nopPublisher struct{}

// Nop returns a Publisher that uploads nothing.
func Nop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, ...string) ([]Object, error) {
	return nil, nil
}
