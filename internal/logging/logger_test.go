package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("", false))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN", false))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud", false))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("error", true))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updater.log")

	logger, closer, err := New(Options{File: path, Level: "info"})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("league", "shl").Msg("league updated")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug line should be filtered at info level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, Name, entry["name"])
	assert.Equal(t, "league updated", entry["message"])
	assert.Equal(t, "shl", entry["league"])
	assert.Contains(t, entry, "time")
}

func TestNew_RotationDefaults(t *testing.T) {
	_, closer, err := New(Options{File: filepath.Join(t.TempDir(), "updater.log")})
	require.NoError(t, err)
	defer closer.Close()

	file, ok := closer.(*lumberjack.Logger)
	require.True(t, ok)
	// lumberjack megabytes are MiB
	assert.Equal(t, 10, file.MaxSize)
	assert.Equal(t, 2, file.MaxBackups)
}

func TestNew_Console(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "updater.log")

	logger, closer, err := New(Options{File: path, Debug: true, Console: true, ConsoleOut: &console})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("debugging")
	assert.Contains(t, console.String(), "debugging")
}

func TestNew_RequiresFile(t *testing.T) {
	_, _, err := New(Options{})
	assert.Error(t, err)
}
