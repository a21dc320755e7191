package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/pkg/logger"
)

func TestNew_JSONConServicioYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "trufas", Output: &buf})

	l.Info().Msg("no debe aparecer")
	l.Warn().Str("item_uid", "TRF-001-ABCDEFGH").Msg("aviso")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "trufas", entry["service"])
	assert.Equal(t, "TRF-001-ABCDEFGH", entry["item_uid"])
	assert.Contains(t, entry, "time")

	buf.Reset()
	log.Error().Msg("global")
	assert.Contains(t, buf.String(), `"service":"trufas"`, "New instala el logger global")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("ruidoso"))
}
