package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lectio/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("LECTIO_ZR_EXPRESS_TOKEN", "tok")
	t.Setenv("LECTIO_ZR_EXPRESS_KEY", "key")

	cfg, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "8082", cfg.HTTPPort)
	assert.Equal(t, "https://procolis.com/api_v1", cfg.ZRExpressBaseURL)
	assert.Equal(t, "31", cfg.ZRExpressRegionCode)
	assert.Equal(t, 30*time.Second, cfg.CourierTimeout)
	assert.Equal(t, "order.changed", cfg.KafkaOrderChangedTopic)
	assert.Empty(t, cfg.KafkaHost)
	assert.Equal(t, 50, cfg.ShipmentRetryBatchSize)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=lectio sslmode=disable", cfg.DSN())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"http_port: \"9000\"\n"+
			"db_host: db.internal\n"+
			"zr_express_token: from-file\n"+
			"zr_express_key: from-file\n"+
			"courier_timeout: 10s\n",
	), 0o600))
	t.Setenv("LECTIO_DB_HOST", "db.env")
	t.Setenv("LECTIO_KAFKA_HOST", "kafka-1:9092,kafka-2:9092")

	cfg, err := cmd.LoadConfig(file)

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "db.env", cfg.DBHost)
	assert.Equal(t, "from-file", cfg.ZRExpressToken)
	assert.Equal(t, 10*time.Second, cfg.CourierTimeout)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", cfg.KafkaHost)
}

func TestLoadConfig_RequiresCourierCredentials(t *testing.T) {
	t.Setenv("LECTIO_ZR_EXPRESS_TOKEN", "")
	t.Setenv("LECTIO_ZR_EXPRESS_KEY", "")

	_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
}
