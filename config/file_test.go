package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/commstack/portal/model"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, path string, cfg *model.Config) {
	t.Helper()

	b, err := marshalConfig(cfg)
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(path, b, 0600))
}

func TestFileStoreLoad(t *testing.T) {
	tempDir, err := ioutil.TempDir("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "config.json")

	cfg := &model.Config{}
	cfg.SetDefaults()
	*cfg.ServiceSettings.SiteURL = "http://portal.test"
	writeConfigFile(t, path, cfg)

	fs, err := NewFileStore(path, false)
	require.NoError(t, err)
	defer fs.Close()

	require.Equal(t, "http://portal.test", *fs.Get().ServiceSettings.SiteURL)
}

func TestFileStoreWatcherReloadsOnChange(t *testing.T) {
	tempDir, err := ioutil.TempDir("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "config.json")

	cfg := &model.Config{}
	cfg.SetDefaults()
	*cfg.ServiceSettings.SiteURL = "http://before.test"
	writeConfigFile(t, path, cfg)

	fs, err := NewFileStore(path, true)
	require.NoError(t, err)
	defer fs.Close()

	require.Equal(t, "http://before.test", *fs.Get().ServiceSettings.SiteURL)

	*cfg.ServiceSettings.SiteURL = "http://after.test"
	writeConfigFile(t, path, cfg)

	require.Eventually(t, func() bool {
		return *fs.Get().ServiceSettings.SiteURL == "http://after.test"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestFileStoreCloseStopsWatcher(t *testing.T) {
	tempDir, err := ioutil.TempDir("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "config.json")

	cfg := &model.Config{}
	cfg.SetDefaults()
	writeConfigFile(t, path, cfg)

	fs, err := NewFileStore(path, true)
	require.NoError(t, err)

	require.NoError(t, fs.Close())
	// closing twice is harmless
	require.NoError(t, fs.Close())
}
