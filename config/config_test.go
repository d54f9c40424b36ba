package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formpost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080
timeout: 5s
forms:
  - name: clientPay
    title: Make a payment
    label: Paste JSON here
    endpoint: /hdls-client/clientPay
    default: '{"amount":"1.00"}'
  - name: setEndpoint
    endpoint: /hdls-client/setEndpoint
    max_in_flight: 1
`)

	store, err := LoadConfig(path)
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	require.Len(t, cfg.Forms, 2)
	assert.Equal(t, "Make a payment", cfg.Forms[0].Title)
	assert.Equal(t, `{"amount":"1.00"}`, cfg.Forms[0].Default)
	assert.Equal(t, 1, cfg.Forms[1].MaxInFlight)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"relative base url": "base_url: /api\n",
		"bad color":         "color: purple\n",
		"unnamed form":      "forms:\n  - endpoint: /a\n",
		"duplicate form":    "forms:\n  - name: a\n  - name: a\n",
		"negative limit":    "forms:\n  - name: a\n    max_in_flight: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("FORMPOST_BASE_URL", "http://localhost:9090")
	t.Setenv("FORMPOST_COLOR", ColorNever)
	t.Setenv("FORMPOST_TIMEOUT", "2s")

	store, err := LoadEnv()
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "http://localhost:9090", cfg.BaseURL)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Forms)
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("FORMPOST_BASE_URL", "")
	t.Setenv("FORMPOST_COLOR", "")
	t.Setenv("FORMPOST_TIMEOUT", "")

	store, err := LoadEnv()
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "", cfg.BaseURL)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestLoadEnvValidation(t *testing.T) {
	t.Setenv("FORMPOST_BASE_URL", "/relative")

	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080
color: always
timeout: 5s
forms:
  - name: clientPay
    endpoint: /hdls-client/clientPay
`)
	t.Setenv("FORMPOST_BASE_URL", "http://localhost:9090")
	t.Setenv("FORMPOST_COLOR", ColorNever)
	t.Setenv("FORMPOST_TIMEOUT", "2s")

	store, err := LoadConfig(path)
	require.NoError(t, err)

	cfg := store.Config()
	assert.Equal(t, "http://localhost:9090", cfg.BaseURL)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "/hdls-client/clientPay", store.Endpoint("clientPay"))
}

func TestStoreOnReload(t *testing.T) {
	path := writeConfig(t, "forms:\n  - name: pay\n    max_in_flight: 1\n")

	store, err := LoadConfig(path)
	require.NoError(t, err)

	reloaded := make(chan Config, 4)
	store.OnReload(func(c Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	store.Watch()

	require.NoError(t, os.WriteFile(path, []byte("forms:\n  - name: pay\n    max_in_flight: 3\n"), 0o600))

	require.Eventually(t, func() bool {
		for {
			select {
			case c := <-reloaded:
				if len(c.Forms) == 1 && c.Forms[0].MaxInFlight == 3 {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStoreForm(t *testing.T) {
	store, err := NewStore(Config{Forms: []FormConfig{
		{Name: "first", Endpoint: "/first"},
		{Name: "second", Endpoint: "/second"},
	}})
	require.NoError(t, err)

	form, ok := store.Form("")
	require.True(t, ok)
	assert.Equal(t, "first", form.Name)

	assert.Equal(t, "/second", store.Endpoint("second"))
	assert.Equal(t, "", store.Endpoint("third"))

	_, ok = store.Form("third")
	assert.False(t, ok)
}

func TestStoreWithoutForms(t *testing.T) {
	store, err := NewStore(Config{})
	require.NoError(t, err)

	_, ok := store.Form("")
	assert.False(t, ok)
	assert.Equal(t, ColorAuto, store.Config().Color)
}

func TestColorMode(t *testing.T) {
	assert.Equal(t, ColorAlways, (&CliConfig{Color: true}).ColorMode(ColorNever))
	assert.Equal(t, ColorNever, (&CliConfig{NoColor: true}).ColorMode(ColorAlways))
	assert.Equal(t, ColorAuto, (&CliConfig{}).ColorMode(""))
	assert.Equal(t, ColorNever, (&CliConfig{}).ColorMode(ColorNever))
}
