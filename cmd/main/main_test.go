package main

import (
	"testing"

	"github.com/maxbolgarin/logze/v2"
	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	analyze := analyzeCmd.FullCommand()
	serve := serveCmd.FullCommand()

	assert.Equal(t, logze.LevelWarn, logLevel(analyze, false))
	assert.Equal(t, logze.LevelDebug, logLevel(analyze, true))
	assert.Equal(t, logze.LevelInfo, logLevel(serve, false))
	assert.Equal(t, logze.LevelDebug, logLevel(serve, true))
}
