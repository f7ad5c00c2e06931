package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CamposPorDefectoYNivel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Service: "stock-ledger", Output: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len(), "info no debe salir con nivel warn")

	log.WithRequestID("req-42").Warn().Str("loan_id", "l1").Msg("préstamo devuelto")
	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "stock-ledger", ev["service"])
	assert.Equal(t, "req-42", ev["request_id"])
	assert.Equal(t, "l1", ev["loan_id"])
	assert.Equal(t, "warn", ev["level"])
}

func TestWithRequestID_SinID(t *testing.T) {
	log := Nop()
	assert.Same(t, log, log.WithRequestID(""))
}
