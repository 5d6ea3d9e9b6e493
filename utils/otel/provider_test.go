package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg := ConfigFromEnv()

	assert.Equal(t, "skuunup-auth", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "http://localhost:4318", cfg.OTLPEndpoint)
}

func TestConfigFromEnv_Disabled(t *testing.T) {
	for _, value := range []string{"false", "FALSE", "0", "no"} {
		t.Setenv("OTEL_ENABLED", value)
		assert.False(t, ConfigFromEnv().Enabled, "OTEL_ENABLED=%s", value)
	}
}

func TestInitProvider_Disabled(t *testing.T) {
	cfg := Config{
		ServiceName:  "test",
		Enabled:      false,
		OTLPEndpoint: "http://localhost:4318",
	}

	shutdown, err := InitProvider(context.Background(), cfg)
	require.NoError(t, err)

	assert.NoError(t, shutdown(context.Background()))
}
