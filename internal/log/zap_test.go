package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "console debug", level: "debug", format: "console"},
		{name: "json info", level: "info", format: "json"},
		{name: "default format", level: "warn", format: ""},
		{name: "bad level", level: "chatty", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			lvl, _ := zapcore.ParseLevel(tt.level)
			assert.True(t, logger.Core().Enabled(lvl))
		})
	}
}
