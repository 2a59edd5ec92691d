package session

import (
	"context"
	"errors"
	"time"

	"zerohunger-chat/internal/conversation/intent"
)

// Stage identifies which question the conversation is waiting on.
type Stage string

const (
	StageAwaitingIntent   Stage = "awaiting_intent"
	StageAwaitingName     Stage = "awaiting_name"
	StageAwaitingAge      Stage = "awaiting_age"
	StageAwaitingLocation Stage = "awaiting_location"
	StageAwaitingFoodNeed Stage = "awaiting_food_need"
	StageCompleted        Stage = "completed"
)

// Collected field keys.
const (
	FieldName     = "person_name"
	FieldAge      = "age"
	FieldLocation = "location"
	FieldFood     = "food_request"
)

// slotOrder is the fixed question sequence. The stage always points at
// the first slot that is still empty.
var slotOrder = []struct {
	Field string
	Stage Stage
}{
	{FieldName, StageAwaitingName},
	{FieldAge, StageAwaitingAge},
	{FieldLocation, StageAwaitingLocation},
	{FieldFood, StageAwaitingFoodNeed},
}

// ErrNotFound is returned by Store.Get when no session exists for the id.
var ErrNotFound = errors.New("session not found")

// Session holds the per-conversation state machine.
type Session struct {
	ID        string            `json:"id"`
	Intent    intent.Intent     `json:"intent"`
	Stage     Stage             `json:"stage"`
	Collected map[string]string `json:"collected"`
	Fulfilled bool              `json:"fulfilled"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New returns a fresh session waiting for the opening message.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Stage:     StageAwaitingIntent,
		Collected: make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Has reports whether the field has already been collected.
func (s *Session) Has(field string) bool {
	v, ok := s.Collected[field]
	return ok && v != ""
}

// Set stores a collected field value.
func (s *Session) Set(field, value string) {
	if s.Collected == nil {
		s.Collected = make(map[string]string)
	}
	s.Collected[field] = value
}

// NextStage returns the stage for the first unfilled slot, or
// StageCompleted when every slot is filled.
func (s *Session) NextStage() Stage {
	for _, slot := range slotOrder {
		if !s.Has(slot.Field) {
			return slot.Stage
		}
	}
	return StageCompleted
}

// Complete marks the session finished.
func (s *Session) Complete() {
	s.Stage = StageCompleted
	s.Fulfilled = true
}

// UnlockFunc releases a session lock acquired via Store.Lock.
type UnlockFunc func()

// Store persists sessions and serializes concurrent turns on the same id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, id string, sess *Session) error
	Lock(ctx context.Context, id string) (UnlockFunc, error)
}
