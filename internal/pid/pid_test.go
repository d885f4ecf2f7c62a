package pid_test

import (
	"os"
	"strconv"
	"testing"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, pid.Write(dir))

	data, err := os.ReadFile(pid.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, pid.Remove(dir))
	assert.NoFileExists(t, pid.Path(dir))

	// Removing twice is fine.
	require.NoError(t, pid.Remove(dir))
}

func TestWriteWhileRunning(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, pid.Write(dir))
	t.Cleanup(func() { _ = pid.Remove(dir) })

	err := pid.Write(dir)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(pid.Path(dir), []byte("99999999"), 0o600))

	require.NoError(t, pid.Write(dir))

	data, err := os.ReadFile(pid.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
}

func TestWriteMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(pid.Path(dir), []byte("not a pid"), 0o600))

	err := pid.Write(dir)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInternal))
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	require.NoError(t, pid.Write(dir))
	assert.FileExists(t, pid.Path(dir))
}
