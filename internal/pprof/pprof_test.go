package pprof

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{HTTPAddr: "localhost:0"}.Enabled())
	assert.True(t, Config{HeapProfile: "heap.out"}.Enabled())
}

func TestFileProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPUProfile:  filepath.Join(dir, "prof", "cpu.out"),
		HeapProfile: filepath.Join(dir, "prof", "heap.out"),
	}

	h := NewHandler(cfg)
	require.NoError(t, h.Start())
	assert.Error(t, h.Start())
	assert.Empty(t, h.Addr())
	require.NoError(t, h.Stop())
	require.NoError(t, h.Stop())

	for _, path := range []string{cfg.CPUProfile, cfg.HeapProfile} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}

func TestHTTPServer(t *testing.T) {
	h := NewHandler(Config{HTTPAddr: "127.0.0.1:0"})
	require.NoError(t, h.Start())
	defer h.Stop()

	resp, err := http.Get("http://" + h.Addr() + "/debug/pprof/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, h.Stop())
	assert.Empty(t, h.Addr())
}

func TestStopWithoutStart(t *testing.T) {
	assert.NoError(t, NewHandler(Config{HeapProfile: filepath.Join(t.TempDir(), "heap.out")}).Stop())
}
