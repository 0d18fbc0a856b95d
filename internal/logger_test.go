package internal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memoryLog struct {
	mutex    sync.Mutex
	messages []*FeatureLogMessage
}

func (m *memoryLog) WriteLogMessage(_ context.Context, message *FeatureLogMessage) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *memoryLog) count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.messages)
}

func TestLogger_DatabaseSink(t *testing.T) {
	sink := &memoryLog{}
	logger := NewNopLogger()
	logger.SetDatabase(sink)

	logger.FeatureEvent("Commands", "NL-EXA", "dispatched")
	logger.Warn("slow partner")
	logger.Error("relay", errors.New("offline"))
	logger.Debug("not stored")

	require.Eventually(t, func() bool { return sink.count() == 3 }, time.Second, 5*time.Millisecond)
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	assert.Equal(t, "Commands", sink.messages[0].Feature)
	assert.Equal(t, "NL-EXA", sink.messages[0].Id)
	assert.Equal(t, string(Warning), sink.messages[1].Importance)
	assert.Equal(t, "*", sink.messages[1].Id)
	assert.Equal(t, "relay: offline", sink.messages[2].Text)
}

func TestNewLogger_Level(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Zap().Core().Enabled(-1))

	logger, err = NewLogger("nonsense")
	require.NoError(t, err)
	assert.False(t, logger.Zap().Core().Enabled(-1))
}

func TestLogger_RawDataEventNeedsDebugMode(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := newLogger(zap.New(core))

	logger.RawDataEvent("POST /commands/START_SESSION", `{"location_id":"LOC1"}`)
	assert.Equal(t, 0, logs.Len())

	logger.SetDebugMode(true)
	logger.RawDataEvent("POST /commands/START_SESSION", `{"location_id":"LOC1"}`)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, `{"location_id":"LOC1"}`, entry.Message)
	assert.Equal(t, "POST /commands/START_SESSION", entry.ContextMap()["direction"])
}
