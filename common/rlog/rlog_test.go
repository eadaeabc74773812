package rlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfowRecordsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))

	Infow("fixture step", "step", "createPair")
	Debugw("polling receipt")
	Println("plain", 1)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "fixture step", entries[0].Message)
	assert.Equal(t, "createPair", entries[0].ContextMap()["step"])
	assert.Equal(t, zap.DebugLevel, entries[1].Level)
	assert.Equal(t, "plain 1\n", entries[2].Message)
}

func TestSetLevel(t *testing.T) {
	assert.NoError(t, SetLevel("debug"))
	assert.Error(t, SetLevel("loud"))
}
