package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := newTo(&buf, BackendZap, "debug")
	require.NoError(t, err)

	log.With("module", "http").Info(context.Background(), "request", "status", 200)

	line := strings.TrimSpace(buf.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "request", got["msg"])
	assert.Equal(t, "http", got["module"])
	assert.EqualValues(t, 200, got["status"])
}

func TestZapLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := newTo(&buf, BackendZap, "warn")
	require.NoError(t, err)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_UnknownBackendAndLevel(t *testing.T) {
	_, err := newTo(&bytes.Buffer{}, "logrus", "info")
	require.Error(t, err)

	_, err = newTo(&bytes.Buffer{}, BackendSlog, "loud")
	require.Error(t, err)
}
