package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInitSetsGlobalLevel(t *testing.T) {
	Init("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Init("not-a-level")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestGetReturnsConfiguredLogger(t *testing.T) {
	Init("warn")

	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)

	l := Get()
	l.Warn().Msg("visible")
	l.Debug().Msg("filtered")

	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "filtered")
}
