package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	} {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInit_JSONFields(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Service: "users-api", Env: "test", Output: &buf})
	l := Component("repository")
	l.Debug().Str("op", "find_one").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "users-api", entry["service"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, "repository", entry["component"])
	assert.Equal(t, "find_one", entry["op"])
	assert.Equal(t, "debug", entry["level"])
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "warn", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	l := Get()
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	assert.Zero(t, second.Len())
	assert.Contains(t, first.String(), "kept")
	assert.NotContains(t, first.String(), "dropped")
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	assert.Panics(t, func() { Get() })
}
