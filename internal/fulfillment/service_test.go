package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zerohunger-chat/internal/common/errors"
	commonhttp "zerohunger-chat/internal/common/http"
	"zerohunger-chat/internal/common/logger"
)

func validRecord() *Record {
	return &Record{
		PersonName:     "John Doe",
		Age:            25,
		Location:       "Springfield",
		FoodRequest:    "rice and beans",
		AssistanceType: "immediate",
		SessionID:      "sess-1",
		Status:         StatusPending,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestRecordValidate(t *testing.T) {
	rec := validRecord()
	rec.ID = "req-1"
	assert.NoError(t, rec.Validate())

	bad := validRecord()
	bad.ID = "req-2"
	bad.Age = 200
	err := bad.Validate()
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeRecordValidationFailed, stdErr.Code)

	missing := validRecord()
	missing.ID = "req-3"
	missing.PersonName = ""
	assert.Error(t, missing.Validate())

	badType := validRecord()
	badType.ID = "req-4"
	badType.AssistanceType = "eventually"
	assert.Error(t, badType.Validate())
}

func TestServiceDispatchStoresRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO food_assistance_requests").
		WithArgs(
			sqlmock.AnyArg(), "John Doe", 25, "Springfield", "rice and beans",
			"immediate", "sess-1", StatusPending, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := NewService(NewPostgresStore(db), logger.NewNoOpLogger())

	rec := validRecord()
	require.NoError(t, svc.Dispatch(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceDispatchStoreFailureIsFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO food_assistance_requests").
		WillReturnError(errors.New("connection refused"))

	svc := NewService(NewPostgresStore(db), logger.NewNoOpLogger())

	err = svc.Dispatch(context.Background(), validRecord())
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeDispatchStoreFailed, stdErr.Code)
}

func TestServiceDispatchRejectsInvalidRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewPostgresStore(db), logger.NewNoOpLogger())

	rec := validRecord()
	rec.Age = 0
	assert.Error(t, svc.Dispatch(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookNotifierSendsPayload(t *testing.T) {
	var received webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(commonhttp.NewClient(5*time.Second), srv.URL, 0, logger.NewNoOpLogger())

	rec := validRecord()
	rec.ID = "req-1"
	require.NoError(t, notifier.Notify(context.Background(), rec))

	assert.Equal(t, "John Doe", received.PersonName)
	assert.Equal(t, 25, received.Age)
	assert.Equal(t, "immediate", received.AssistanceType)
}

func TestWebhookNotifierRetriesThenFails(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(commonhttp.NewClient(5*time.Second), srv.URL, 2, logger.NewNoOpLogger())

	err := notifier.Notify(context.Background(), validRecord())
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeWebhookNotifyFailed, stdErr.Code)
}

func TestServiceDispatchNotifierFailureNotFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO food_assistance_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))

	failing := &stubNotifier{err: errors.New("partner down")}
	svc := NewService(NewPostgresStore(db), logger.NewNoOpLogger(), failing)

	assert.NoError(t, svc.Dispatch(context.Background(), validRecord()))
	assert.Equal(t, 1, failing.calls)
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(context.Context, *Record) error {
	s.calls++
	return s.err
}
