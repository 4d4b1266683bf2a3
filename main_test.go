package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLog(t *testing.T) {
	out, prefix, flags := log.Writer(), log.Prefix(), log.Flags()
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetPrefix(prefix)
		log.SetFlags(flags)
	})
}

func TestSetupLoggingDiscardsForTerminal(t *testing.T) {
	restoreLog(t)
	f, err := setupLogging("", true)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, io.Discard, log.Writer())
	assert.Equal(t, "particles: ", log.Prefix())
}

func TestSetupLoggingStderr(t *testing.T) {
	restoreLog(t)
	f, err := setupLogging("", false)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, os.Stderr, log.Writer())
}

func TestSetupLoggingFile(t *testing.T) {
	restoreLog(t)
	path := filepath.Join(t.TempDir(), "particles.log")
	f, err := setupLogging(path, true)
	require.NoError(t, err)
	require.NotNil(t, f)

	log.Println("placed 10 particles")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "particles: ")
	assert.Contains(t, string(data), "placed 10 particles")
}

func TestSetupLoggingBadPath(t *testing.T) {
	restoreLog(t)
	_, err := setupLogging(filepath.Join(t.TempDir(), "missing", "x.log"), false)
	assert.Error(t, err)
}
