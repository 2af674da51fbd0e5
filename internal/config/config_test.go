package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "minipay", cfg.ServiceName)
	assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
	assert.Equal(t, "http://localhost:3000", cfg.Confirm.BaseURL)
	assert.Equal(t, "ORBITAL-X", cfg.Payment.Description)
	assert.Equal(t, WalletSimulated, cfg.Wallet.Mode)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.True(t, cfg.UsesDefaultDestination())
}

func TestLoadFlagsOverride(t *testing.T) {
	cfg, err := Load(newFlags(t,
		"--backend.base_url=http://backend:8080",
		"--backend.timeout=3s",
		"--payment.to=0xabc",
		"--wallet.mode=none",
	))
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, WalletNone, cfg.Wallet.Mode)
	assert.False(t, cfg.UsesDefaultDestination())
}

func TestLoadConfirmBaseFromNextAuthURL(t *testing.T) {
	t.Setenv("NEXTAUTH_URL", "https://shop.example.com")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.Confirm.BaseURL)
}

func TestLoadPrefixedEnv(t *testing.T) {
	t.Setenv("MINIPAY_PAYMENT_DESCRIPTION", "from-env")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Payment.Description)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minipay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("payment:\n  description: from-file\nwallet:\n  success_rate: 0.5\n"), 0o644))

	cfg, err := Load(newFlags(t, "--config="+path))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Payment.Description)
	assert.Equal(t, 0.5, cfg.Wallet.SuccessRate)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(newFlags(t, "--wallet.mode=hardware"))
	assert.Error(t, err)

	_, err = Load(newFlags(t, "--wallet.success_rate=2"))
	assert.Error(t, err)
}
