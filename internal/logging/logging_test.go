package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmcp/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name string
		opts logging.Options
		want logrus.Level
	}{
		{"default", logging.Options{}, logrus.InfoLevel},
		{"named level", logging.Options{Level: "warn"}, logrus.WarnLevel},
		{"bad level", logging.Options{Level: "loud"}, logrus.InfoLevel},
		{"debug flag", logging.Options{Level: "error", Debug: true}, logrus.DebugLevel},
		{"quiet wins", logging.Options{Debug: true, Quiet: true}, logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.New(tt.opts).GetLevel())
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{JSON: true, Output: &buf})

	log.WithField("tool", "add-task").Info("tool call")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "add-task", entry["tool"])
	assert.Equal(t, "tool call", entry["msg"])
}

func TestSetup_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_MODE", "quiet")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	log := logging.Setup(logging.Options{Debug: true, Output: &buf})

	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
	_, isJSON := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
