package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	t.Setenv("DEBUG", "")
	assert.Equal(t, slog.LevelInfo, Level(false))
	assert.Equal(t, slog.LevelDebug, Level(true))

	t.Setenv("DEBUG", "1")
	assert.Equal(t, slog.LevelDebug, Level(false))
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	Setup(&buf, slog.LevelInfo)
	slog.Debug("hidden detail")
	slog.Info("emitted", "path", "p_buildgen.go")

	out := buf.String()
	assert.NotContains(t, out, "hidden detail")
	assert.Contains(t, out, "emitted")
	assert.Contains(t, out, "p_buildgen.go")
	assert.Contains(t, out, "buildgen")
}
