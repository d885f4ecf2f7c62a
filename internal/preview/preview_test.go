package preview_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T) preview.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>dashboard</h1>"), 0o600))

	cfg := preview.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Dir = dir
	cfg.OpenBrowser = false
	return cfg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandlerServesFilesAndMetrics(t *testing.T) {
	s, err := preview.New(testConfig(t), preview.WithOutput(io.Discard))
	require.NoError(t, err)
	h := s.Handler()

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard")

	rec = get(t, h, "/missing.txt")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `marketintel_preview_requests_total{code="200"} 1`)
	assert.Contains(t, rec.Body.String(), `marketintel_preview_requests_total{code="404"} 1`)
}

func TestHandlerServesOnlyArtifacts(t *testing.T) {
	cfg := testConfig(t)
	for _, name := range []string{"report.xlsx", "market.csv", "marketintel.pid", "marketintel.prom", ".report.xlsx.123.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.Dir, name), []byte(name), 0o600))
	}
	require.NoError(t, os.Remove(filepath.Join(cfg.Dir, "index.html")))

	s, err := preview.New(cfg, preview.WithOutput(io.Discard))
	require.NoError(t, err)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/report.xlsx").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/market.csv").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/marketintel.pid").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/marketintel.prom").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/.report.xlsx.123.tmp").Code)

	listing := get(t, h, "/")
	require.Equal(t, http.StatusOK, listing.Code)
	assert.Contains(t, listing.Body.String(), "report.xlsx")
	assert.Contains(t, listing.Body.String(), "market.csv")
	assert.NotContains(t, listing.Body.String(), "marketintel.pid")
	assert.NotContains(t, listing.Body.String(), "marketintel.prom")
	assert.NotContains(t, listing.Body.String(), ".tmp")
}

func TestServeUntilCancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenBrowser = true

	var out bytes.Buffer
	var opened []string
	s, err := preview.New(cfg,
		preview.WithOutput(&out),
		preview.WithLANAddress(func() string { return "192.0.2.10" }),
		preview.WithBrowser(func(url string) error {
			opened = append(opened, url)
			return nil
		}),
	)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	// The file server redirects /index.html to the directory root.
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get("http://127.0.0.1:" + port + "/index.html")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>dashboard</h1>", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Contains(t, out.String(), "Local:   http://localhost:"+port+"/index.html")
	assert.Contains(t, out.String(), "Network: http://192.0.2.10:"+port+"/index.html")
	assert.Equal(t, []string{"http://localhost:" + port + "/index.html"}, opened)
}

func TestBrowserFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenBrowser = true
	s, err := preview.New(cfg,
		preview.WithOutput(io.Discard),
		preview.WithBrowser(func(string) error { return assert.AnError }),
	)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Serve(ctx, ln))
}

func TestListenPortInUse(t *testing.T) {
	held, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer held.Close()

	cfg := testConfig(t)
	cfg.Host = ""
	cfg.Port = held.Addr().(*net.TCPAddr).Port
	s, err := preview.New(cfg, preview.WithOutput(io.Discard))
	require.NoError(t, err)

	_, err = s.Listen()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, preview.ErrPortInUse))
	assert.Contains(t, err.Error(), "already in use")
}

func TestConfigValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	tests := []struct {
		name   string
		modify func(*preview.Config)
	}{
		{"negative port", func(c *preview.Config) { c.Port = -1 }},
		{"port out of range", func(c *preview.Config) { c.Port = 70000 }},
		{"missing dir", func(c *preview.Config) { c.Dir = filepath.Join(c.Dir, "nope") }},
		{"not a dir", func(c *preview.Config) { c.Dir = file }},
		{"no shutdown timeout", func(c *preview.Config) { c.ShutdownTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(&cfg)
			_, err := preview.New(cfg)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, preview.ErrInvalidConfig))
		})
	}
}

func TestLANAddress(t *testing.T) {
	assert.NotNil(t, net.ParseIP(preview.LANAddress()))
}
