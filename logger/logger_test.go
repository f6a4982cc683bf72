package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcobambini/TileDB/logger"
)

func TestStandardLogger_PrintfWritesToBuffer(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewStandardLogger(&buf)
	l.Printf("hello %s", "world")
	require.Contains(t, buf.String(), "INFO:")
	require.Contains(t, buf.String(), "hello world")
}

func TestStandardLogger_DebugfSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewStandardLogger(&buf)
	l.Debugf("should not appear")
	require.Empty(t, buf.String())
}

func TestVerboseLogger_DebugfIsEmitted(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewVerboseLogger(&buf)
	l.Debugf("visible at debug level")
	require.Contains(t, buf.String(), "DEBUG:")
	require.Contains(t, buf.String(), "visible at debug level")
}

func TestStandardLogger_WithPrefixAppliesToSubsequentLines(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewStandardLogger(&buf).WithPrefix("worker-1: ")
	l.Printf("starting up")
	require.True(t, strings.Contains(buf.String(), "worker-1: "))
}

func TestNopLogger_DiscardsEverything(t *testing.T) {
	require.NotPanics(t, func() {
		logger.NopLogger.Printf("x")
		logger.NopLogger.Errorf("y")
		logger.NopLogger.WithPrefix("z").Infof("w")
	})
}

func TestBufferLogger_ReadAllReturnsLoggedText(t *testing.T) {
	bl := logger.NewBufferLogger()
	bl.Infof("event one")
	bl.Errorf("event two")

	out, err := bl.ReadAll()
	require.NoError(t, err)
	require.Contains(t, string(out), "event one")
	require.Contains(t, string(out), "event two")

	// draining once empties the buffer
	out2, err := bl.ReadAll()
	require.NoError(t, err)
	require.Empty(t, out2)
}

func TestLogfLogger_ForwardsToLogf(t *testing.T) {
	ll := logger.NewLogfLogger(t)
	require.NotPanics(t, func() {
		ll.Printf("forwarded via t.Logf: %d", 42)
	})
}
