package model

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	require.Nil(t, cfg.IsValid())

	assert.Equal(t, SERVICE_SETTINGS_DEFAULT_SITE_URL, *cfg.ServiceSettings.SiteURL)
	assert.Equal(t, CONN_SECURITY_NONE, *cfg.ServiceSettings.ConnectionSecurity)
	assert.False(t, *cfg.ServiceSettings.UseLetsEncrypt)
	assert.False(t, *cfg.ServiceSettings.Forward80To443)
	assert.NotEmpty(t, *cfg.ServiceSettings.LetsEncryptCertificateCacheFile)
}

func TestConfigIsValidTLS(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	*cfg.ServiceSettings.ConnectionSecurity = "STARTTLS"
	require.NotNil(t, cfg.IsValid())

	// TLS without autocert needs a cert and key that exist on disk
	cfg = &Config{}
	cfg.SetDefaults()
	*cfg.ServiceSettings.ConnectionSecurity = CONN_SECURITY_TLS
	*cfg.ServiceSettings.TLSCertFile = ""
	require.NotNil(t, cfg.IsValid())

	*cfg.ServiceSettings.TLSCertFile = "/nonexistent/cert.pem"
	require.NotNil(t, cfg.IsValid())

	tempDir, err := ioutil.TempDir("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	certFile := filepath.Join(tempDir, "cert.pem")
	keyFile := filepath.Join(tempDir, "key.pem")
	require.NoError(t, ioutil.WriteFile(certFile, []byte("cert"), 0600))
	require.NoError(t, ioutil.WriteFile(keyFile, []byte("key"), 0600))

	*cfg.ServiceSettings.TLSCertFile = certFile
	*cfg.ServiceSettings.TLSKeyFile = ""
	require.NotNil(t, cfg.IsValid())

	*cfg.ServiceSettings.TLSKeyFile = keyFile
	require.Nil(t, cfg.IsValid())

	// autocert manages its own certificates, no files required
	*cfg.ServiceSettings.TLSCertFile = ""
	*cfg.ServiceSettings.TLSKeyFile = ""
	*cfg.ServiceSettings.UseLetsEncrypt = true
	require.Nil(t, cfg.IsValid())
}
