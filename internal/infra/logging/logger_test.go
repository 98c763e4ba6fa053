package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lead-funnel/internal/infra/logging"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})

	log.WithField("lead_id", "lead_1_abc").Debug("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "lead_1_abc", entry["lead_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	log := logging.New(logging.Options{Level: "loud", Output: &bytes.Buffer{}})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, isText := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestInitSentryDisabledWithoutDSN(t *testing.T) {
	enabled, err := logging.InitSentry("", "test")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestInitSentryInvalidDSN(t *testing.T) {
	enabled, err := logging.InitSentry("not a dsn", "test")
	assert.Error(t, err)
	assert.False(t, enabled)
}

func TestCaptureErrorWithoutClient(t *testing.T) {
	assert.NotPanics(t, func() {
		logging.CaptureError("sheets_relay", errors.New("boom"), map[string]interface{}{"lead_id": "x"})
		logging.CaptureError("sheets_relay", nil, nil)
	})
}

func TestLogEvent(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Format: "json", Output: &buf})

	logging.LogEvent(log, "lead_captured", map[string]interface{}{"lead_id": "lead_1_abc"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lead_captured", entry["event_type"])
	assert.Equal(t, "lead_1_abc", entry["lead_id"])
}
