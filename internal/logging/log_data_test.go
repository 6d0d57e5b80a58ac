package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogData_FieldsAndTimings(t *testing.T) {
	logData := NewLogData(NewLogger(&bytes.Buffer{}, logrus.InfoLevel))
	logData.AddData("accountID", "abc")

	stop := logData.AddTiming("ledgerMs")
	stop()
	acc := logData.AddToExistingTiming("ledgerMs")
	acc()

	fields := logData.Fields()
	assert.Equal(t, "abc", fields["accountID"])
	assert.Contains(t, fields, "ledgerMs")
}

func TestGetLogData(t *testing.T) {
	assert.Nil(t, GetLogData(context.Background()))

	logData := NewLogData(SetupLogging())
	ctx := NewContext(context.Background(), logData)
	assert.Same(t, logData, GetLogData(ctx))
}

func TestLog_WritesJSONWithLogLevelKey(t *testing.T) {
	var buf bytes.Buffer
	logData := NewLogData(NewLogger(&buf, logrus.InfoLevel))
	logData.AddData("count", 2)

	logData.Log().Info("Session.Commit.Complete")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["loglevel"])
	assert.Equal(t, "Session.Commit.Complete", line["msg"])
	assert.Equal(t, float64(2), line["count"])
}

func TestLoggingWrapper_LogsHandlerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, logrus.InfoLevel)

	handler := LoggingWrapper("Test", logger, func(w http.ResponseWriter, _ *http.Request, logData *LogData) error {
		logData.AddData("seen", true)
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("bad input")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, buf.String(), "Handler.Test.Error")
	assert.Contains(t, buf.String(), "bad input")
}
