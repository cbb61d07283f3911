package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zap.AtomicLevel
		ok   bool
	}{
		{"", zap.NewAtomicLevelAt(zap.InfoLevel), true},
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel), true},
		{"WARN", zap.NewAtomicLevelAt(zap.WarnLevel), true},
		{"loud", zap.AtomicLevel{}, false},
	}

	for _, tt := range tests {
		level, err := ParseLevel(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want.Level(), level, tt.in)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.log")
	log, err := New(Options{Level: "debug", Console: true, Path: path})
	require.NoError(t, err)

	log.Debug("hello", zap.Int("balls", 3))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello"))
	assert.True(t, strings.Contains(string(data), "balls"))
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "nope"})
	assert.Error(t, err)
}
