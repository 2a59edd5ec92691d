package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "zerohunger-chat/internal/common/http"
	"zerohunger-chat/internal/common/logger"
	"zerohunger-chat/internal/conversation/engine"
	"zerohunger-chat/internal/conversation/session"
	"zerohunger-chat/internal/fulfillment"
	"zerohunger-chat/internal/server"
)

type chatResponse struct {
	Reply          string `json:"reply"`
	SessionID      string `json:"session_id"`
	Intent         string `json:"intent,omitempty"`
	AssistanceType string `json:"assistance_type,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

// TestFullRequestFlow drives a complete conversation over HTTP against a
// real fulfillment service backed by a mocked database and a live test
// webhook receiver.
func TestFullRequestFlow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO food_assistance_requests").
		WithArgs(
			sqlmock.AnyArg(), "John", 30, "Downtown", "Rice and beans",
			"immediate", sqlmock.AnyArg(), "pending", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var webhookBody map[string]interface{}
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&webhookBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	log := logger.NewNoOpLogger()
	dispatcher := fulfillment.NewService(
		fulfillment.NewPostgresStore(db),
		log,
		fulfillment.NewWebhookNotifier(commonhttp.NewClient(5*time.Second), webhook.URL, 0, log),
	)
	eng := engine.New(session.NewMemoryStore(), dispatcher, nil, log)
	api := httptest.NewServer(server.NewRouter(eng, log, nil, nil))
	defer api.Close()

	post := func(message, sessionID string) chatResponse {
		t.Helper()
		body, err := json.Marshal(map[string]string{"message": message, "session_id": sessionID})
		require.NoError(t, err)
		resp, err := http.Post(api.URL+"/api/chat", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out chatResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	res := post("", "")
	require.NotEmpty(t, res.SessionID)
	assert.Contains(t, res.Reply, "How can I assist you")
	id := res.SessionID

	res = post("I need food urgently", id)
	assert.Equal(t, "immediate", res.Intent)
	assert.Contains(t, res.Reply, "your name")

	res = post("John", id)
	assert.Contains(t, res.Reply, "your age")

	res = post("30", id)
	assert.Contains(t, res.Reply, "location")

	res = post("Downtown", id)
	assert.Contains(t, res.Reply, "what kind of food")

	res = post("Rice and beans", id)
	assert.Contains(t, res.Reply, "confirmed")
	assert.Empty(t, res.Warning)

	// The record reached the database and the partner webhook.
	assert.NoError(t, mock.ExpectationsWereMet())
	require.NotNil(t, webhookBody)
	assert.Equal(t, "John", webhookBody["person_name"])
	assert.Equal(t, float64(30), webhookBody["age"])
	assert.Equal(t, "immediate", webhookBody["assistance_type"])

	// Further messages get the closing acknowledgment and no second insert.
	res = post("thanks, more rice please", id)
	assert.Contains(t, res.Reply, "already been processed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
