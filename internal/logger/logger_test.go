package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBeforeInitReturnsNop(t *testing.T) {
	require.NotNil(t, Get())
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New("debug", "json", path)
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Sync())
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-1")
	require.Equal(t, "trace-1", GetTraceID(ctx))
	require.Equal(t, "", GetTraceID(context.Background()))
	require.NotNil(t, WithContext(ctx))
}
