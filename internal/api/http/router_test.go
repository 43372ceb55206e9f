package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/musehabit-server/internal/model"
	"github.com/dtroode/musehabit-server/internal/testutil"
)

type mockNightly struct {
	mock.Mock
}

func (m *mockNightly) Run(ctx context.Context, now time.Time) (model.RunReport, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(model.RunReport), args.Error(1)
}

func (m *mockNightly) Report(ctx context.Context, runDate time.Time) (model.RunReport, model.RunStatus, error) {
	args := m.Called(ctx, runDate)
	return args.Get(0).(model.RunReport), args.Get(1).(model.RunStatus), args.Error(2)
}

var fixedNow = time.Date(2024, time.May, 1, 3, 0, 0, 0, time.UTC)

func newTestRouter(nightly NightlyService, secret string) http.Handler {
	r := NewRouter(nightly, secret, testutil.MakeNoopLogger())
	r.now = func() time.Time { return fixedNow }
	return r.Register()
}

func serve(h http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCron_RejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		auth   string
	}{
		{name: "missing header", secret: "s3cret"},
		{name: "wrong secret", secret: "s3cret", auth: "Bearer nope"},
		{name: "wrong scheme", secret: "s3cret", auth: "Basic s3cret"},
		{name: "secret prefix", secret: "s3cret", auth: "Bearer s3cre"},
		{name: "empty configured secret", secret: "", auth: "Bearer "},
		{name: "empty configured secret with token", secret: "", auth: "Bearer anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nightly := &mockNightly{}
			rec := serve(newTestRouter(nightly, tt.secret), "/api/cron/nightly", tt.auth)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			nightly.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestCron_RunsNightly(t *testing.T) {
	nightly := &mockNightly{}
	report := model.RunReport{RunID: uuid.New(), Sent: 2, Scanned: 5}
	nightly.On("Run", mock.Anything, fixedNow).Return(report, nil).Once()

	rec := serve(newTestRouter(nightly, "s3cret"), "/api/cron/nightly", "Bearer s3cret")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.RunReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, report.RunID, got.RunID)
	assert.Equal(t, 2, got.Sent)
	nightly.AssertExpectations(t)
}

func TestCron_RunContextSurvivesClient(t *testing.T) {
	nightly := &mockNightly{}
	nightly.On("Run", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Done() == nil
	}), fixedNow).Return(model.RunReport{}, nil).Once()

	rec := serve(newTestRouter(nightly, "s3cret"), "/api/cron/nightly", "Bearer s3cret")

	assert.Equal(t, http.StatusOK, rec.Code)
	nightly.AssertExpectations(t)
}

func TestCron_SkippedRunIsOK(t *testing.T) {
	nightly := &mockNightly{}
	nightly.On("Run", mock.Anything, fixedNow).Return(model.RunReport{Skipped: true, SkipReason: "busy"}, nil).Once()

	rec := serve(newTestRouter(nightly, "s3cret"), "/api/cron/nightly", "Bearer s3cret")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skipped":true`)
}

func TestCron_RunFailure(t *testing.T) {
	nightly := &mockNightly{}
	nightly.On("Run", mock.Anything, fixedNow).
		Return(model.RunReport{Error: "list users: timeout"}, errors.New("list users: timeout")).Once()

	rec := serve(newTestRouter(nightly, "s3cret"), "/api/cron/nightly", "Bearer s3cret")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "timeout")
}

func TestCron_GetRun(t *testing.T) {
	date := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		nightly := &mockNightly{}
		nightly.On("Report", mock.Anything, date).Return(model.RunReport{Sent: 4}, model.RunCompleted, nil).Once()

		rec := serve(newTestRouter(nightly, "s3cret"), "/api/cron/runs/2024-05-01", "Bearer s3cret")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"completed"`)
		assert.Contains(t, rec.Body.String(), `"sent":4`)
	})

	t.Run("not found", func(t *testing.T) {
		nightly := &mockNightly{}
		nightly.On("Report", mock.Anything, date).Return(model.RunReport{}, model.RunStatus(""), model.ErrNotFound).Once()

		rec := serve(newTestRouter(nightly, "s3cret"), "/api/cron/runs/2024-05-01", "Bearer s3cret")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		rec := serve(newTestRouter(&mockNightly{}, "s3cret"), "/api/cron/runs/yesterday", "Bearer s3cret")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(&mockNightly{}, ""), "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
