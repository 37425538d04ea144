package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	alertDomain "trendradar/internal/domain/alert"
)

type fakeAlertService struct {
	created     alertDomain.Alert
	createErr   error
	alerts      []alertDomain.Alert
	updated     alertDomain.Alert
	updateErr   error
	deleteErr   error
	checkResult alertDomain.CheckResult
	checkErr    error
	gotCreate   alertDomain.CreateRequest
	gotUpdate   alertDomain.UpdateRequest
	gotUserID   string
	gotAlertID  string
}

func (f *fakeAlertService) Start(context.Context) error { return nil }
func (f *fakeAlertService) Stop(context.Context) error  { return nil }

func (f *fakeAlertService) Create(_ context.Context, req alertDomain.CreateRequest) (alertDomain.Alert, error) {
	f.gotCreate = req
	return f.created, f.createErr
}

func (f *fakeAlertService) GetByUser(_ context.Context, userID string) ([]alertDomain.Alert, error) {
	f.gotUserID = userID
	return f.alerts, nil
}

func (f *fakeAlertService) Update(_ context.Context, id string, req alertDomain.UpdateRequest) (alertDomain.Alert, error) {
	f.gotAlertID = id
	f.gotUpdate = req
	return f.updated, f.updateErr
}

func (f *fakeAlertService) Delete(_ context.Context, id string) error {
	f.gotAlertID = id
	return f.deleteErr
}

func (f *fakeAlertService) Check(_ context.Context, id string) (alertDomain.CheckResult, error) {
	f.gotAlertID = id
	return f.checkResult, f.checkErr
}

func (f *fakeAlertService) RegisterTriggerHandler(func(alertDomain.Trigger) error) {}

// validationError builds the wrapped error shape the alert service
// returns for a bad request body.
func validationError(t *testing.T) error {
	t.Helper()
	err := validator.New().Struct(alertDomain.CreateRequest{})
	require.Error(t, err)
	return fmt.Errorf("invalid alert request: %w", err)
}

func TestAlertCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		alerts := &fakeAlertService{created: alertDomain.Alert{
			ID:        "alert-1",
			UserID:    "user-1",
			Keywords:  []string{"tripod"},
			Active:    true,
			CreatedAt: time.Now().UTC(),
		}}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		body := strings.NewReader(`{"user_id":"user-1","keywords":["tripod"],"min_trend_score":0.7}`)
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/alerts/", body))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", alerts.gotCreate.UserID)
		require.NotNil(t, alerts.gotCreate.MinTrendScore)
		assert.Equal(t, 0.7, *alerts.gotCreate.MinTrendScore)

		var created alertDomain.Alert
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, "alert-1", created.ID)
		assert.True(t, created.Active)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewAlertHandler(&fakeAlertService{}, false, zap.NewNop())

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/alerts/", strings.NewReader("{")))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeEnvelope(t, w).Error)
	})

	t.Run("rejected by validation", func(t *testing.T) {
		alerts := &fakeAlertService{createErr: validationError(t)}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/alerts/", strings.NewReader(`{"keywords":["x"]}`)))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid alert request", decodeEnvelope(t, w).Error)
	})

	t.Run("store failure", func(t *testing.T) {
		alerts := &fakeAlertService{createErr: errors.New("store is down")}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/alerts/", strings.NewReader(`{"user_id":"u"}`)))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.Equal(t, "Failed to create alert", envelope.Error)
		assert.Equal(t, "An error occurred", envelope.Detail)
	})
}

func TestAlertGetByUser(t *testing.T) {
	alerts := &fakeAlertService{alerts: []alertDomain.Alert{
		{ID: "alert-1", UserID: "user-1"},
		{ID: "alert-2", UserID: "user-1"},
	}}
	handler := NewAlertHandler(alerts, false, zap.NewNop())

	w := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/alerts/user/user-1", nil), "userID", "user-1")
	handler.GetByUser(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", alerts.gotUserID)

	var got []alertDomain.Alert
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got, 2)
}

func TestAlertUpdate(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		alerts := &fakeAlertService{updated: alertDomain.Alert{ID: "alert-1", Active: false}}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		r := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/alerts/alert-1", strings.NewReader(`{"active":false}`)), "id", "alert-1")
		handler.Update(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alert-1", alerts.gotAlertID)
		require.NotNil(t, alerts.gotUpdate.Active)
		assert.False(t, *alerts.gotUpdate.Active)
	})

	t.Run("missing alert", func(t *testing.T) {
		alerts := &fakeAlertService{updateErr: alertDomain.ErrNotFound}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		r := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/alerts/nope", strings.NewReader(`{}`)), "id", "nope")
		handler.Update(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Alert not found", decodeEnvelope(t, w).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewAlertHandler(&fakeAlertService{}, false, zap.NewNop())

		w := httptest.NewRecorder()
		r := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/alerts/alert-1", strings.NewReader("{")), "id", "alert-1")
		handler.Update(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAlertDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		alerts := &fakeAlertService{}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/alerts/alert-1", nil), "id", "alert-1")
		handler.Delete(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alert-1", alerts.gotAlertID)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, map[string]string{"message": "Alert deleted successfully"}, body)
	})

	t.Run("missing alert", func(t *testing.T) {
		alerts := &fakeAlertService{deleteErr: alertDomain.ErrNotFound}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/alerts/nope", nil), "id", "nope")
		handler.Delete(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Alert not found", decodeEnvelope(t, w).Error)
	})
}

func TestAlertCheck(t *testing.T) {
	t.Run("checked", func(t *testing.T) {
		now := time.Now().UTC()
		alerts := &fakeAlertService{checkResult: alertDomain.CheckResult{
			AlertID:   "alert-1",
			Triggered: true,
			CheckedAt: &now,
		}}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/alerts/alert-1/check", nil), "id", "alert-1")
		handler.Check(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var result alertDomain.CheckResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.True(t, result.Triggered)
		assert.Equal(t, "alert-1", result.AlertID)
	})

	t.Run("missing alert", func(t *testing.T) {
		alerts := &fakeAlertService{checkErr: alertDomain.ErrNotFound}
		handler := NewAlertHandler(alerts, false, zap.NewNop())

		w := httptest.NewRecorder()
		r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/alerts/nope/check", nil), "id", "nope")
		handler.Check(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
