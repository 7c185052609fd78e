package logging

import (
	"context"
	"testing"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogsPoints(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(zap.New(core))

	pts := []model.Point{{Idx: 0, Name: "Play", X: 1, Y: 2}, model.NewPoint("Quit")}
	require.NoError(t, s.Run(context.Background(), pts, nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["count"])
	assert.Equal(t, []interface{}{"Play (1, 2)", "Quit (not set)"}, fields["points"])
}

func TestRegistered(t *testing.T) {
	e, ok := script.Lookup(Name)
	require.True(t, ok)
	_, err := e.Build(script.Deps{})
	assert.NoError(t, err)
}
