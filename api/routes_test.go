package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/service"
	"github.com/carson-networks/budget-import/internal/storage"
)

type fakeProcessor struct{ calls int }

func (f *fakeProcessor) Process(context.Context, actions.IAction) error {
	f.calls++
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestRest(db Pinger) (*Rest, *fakeProcessor) {
	op := &fakeProcessor{}
	return &Rest{
		Logger:         logging.NewLogger(io.Discard, logrus.InfoLevel),
		Port:           "0",
		Service:        service.NewService(storage.NewReader(nil)),
		Operator:       op,
		Database:       db,
		MaxUploadBytes: 1 << 20,
	}, op
}

func TestHandler_Status(t *testing.T) {
	rest, _ := newTestRest(fakePinger{})
	srv := httptest.NewServer(rest.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_StatusDatabaseDown(t *testing.T) {
	rest, _ := newTestRest(fakePinger{err: errors.New("down")})
	srv := httptest.NewServer(rest.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandler_RegistersEveryOperation(t *testing.T) {
	rest, _ := newTestRest(fakePinger{})
	srv := httptest.NewServer(rest.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/openapi.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	for _, path := range []string{
		"/accounts/",
		"/accounts/{accountId}",
		"/accounts/{accountId}/transactions/",
		"/accounts/{accountId}/category-breakdown",
		"/transactions/{id}",
		"/preview-transactions/{accountId}",
		"/import-transactions/{accountId}",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestHandler_BadAccountIDNeverReachesStorage(t *testing.T) {
	rest, op := newTestRest(fakePinger{})
	srv := httptest.NewServer(rest.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/accounts/not-a-uuid/transactions/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, op.calls)
}
