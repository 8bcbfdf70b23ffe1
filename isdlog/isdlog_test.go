package isdlog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gf2decode/isd/isdlog"
	"github.com/stretchr/testify/require"
)

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := isdlog.New(&buf, isdlog.LevelWarn)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	require.Empty(t, buf.String())

	l.Warnf("warn %d", 3)
	require.Contains(t, buf.String(), "[WARN]")
	require.Contains(t, buf.String(), "warn 3")
}

func TestLoggerErrorfAlwaysPasses(t *testing.T) {
	var buf bytes.Buffer
	l := isdlog.New(&buf, isdlog.LevelError)
	l.Errorf("boom: %v", "oops")
	require.Contains(t, buf.String(), "[ERROR] boom: oops")
}

func TestDiscardLoggerWritesNothing(t *testing.T) {
	l := isdlog.Discard()
	l.Errorf("should not panic or write")
}

func TestLevelStringRoundTrip(t *testing.T) {
	for _, lv := range []isdlog.Level{isdlog.LevelDebug, isdlog.LevelInfo, isdlog.LevelWarn, isdlog.LevelError} {
		require.NotEmpty(t, lv.String())
		require.True(t, strings.ToUpper(lv.String()) == lv.String())
	}
}
