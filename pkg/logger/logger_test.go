package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConCamposFijos(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Env: "production", Level: "info", App: "stockbill"}, &buf)

	l.Info().Str("user_id", "u1").Msg("conectado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stockbill", entry["app"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "conectado", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("no debe salir")
	assert.Empty(t, buf.String(), "info por debajo de warn se descarta")

	l.Warn().Msg("sí")
	assert.Contains(t, buf.String(), "sí")
}

func TestParseLevel_Invalido(t *testing.T) {
	assert.Equal(t, "info", parseLevel("xyz").String())
	assert.Equal(t, "info", parseLevel("").String())
}

func TestComponent_HeredaLoggerGlobal(t *testing.T) {
	var buf bytes.Buffer
	newWithWriter(Config{Env: "production", Level: "debug", App: "stockbill"}, &buf)

	c := Component("kafka")
	c.Debug().Msg("publicado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kafka", entry["component"])
	assert.Equal(t, "stockbill", entry["app"])
}
