// Package engine drives the food assistance conversation: one message in,
// one reply out, with the session advancing through a fixed question
// sequence until the request is dispatched.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "zerohunger-chat/internal/common/errors"
	"zerohunger-chat/internal/common/logger"
	"zerohunger-chat/internal/common/metrics"
	"zerohunger-chat/internal/common/observability"
	"zerohunger-chat/internal/conversation/extract"
	"zerohunger-chat/internal/conversation/intent"
	"zerohunger-chat/internal/conversation/session"
	"zerohunger-chat/internal/fulfillment"
)

// Result is the outcome of one conversation turn.
type Result struct {
	SessionID      string
	Reply          string
	Intent         intent.Intent
	AssistanceType string
	DispatchFailed bool
}

// Engine owns the per-session state machine. Turns on the same session
// are serialized through the store lock; turns on different sessions run
// concurrently.
type Engine struct {
	store      session.Store
	dispatcher fulfillment.Dispatcher
	obs        *observability.Observability
	log        logger.Logger
}

func New(store session.Store, dispatcher fulfillment.Dispatcher, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		store:      store,
		dispatcher: dispatcher,
		obs:        obs,
		log:        log,
	}
}

// HandleMessage processes one user turn. An empty sessionID starts a new
// conversation; an unknown sessionID keeps the caller-supplied id so the
// client can continue using it.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, message string) (*Result, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	start := time.Now()

	unlock, err := e.store.Lock(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewSessionLockFailedError(sessionID, err)
	}
	defer unlock()

	sess, err := e.store.Get(ctx, sessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		sess = session.New(sessionID)
	case err != nil:
		return nil, apperrors.NewSessionLoadFailedError(sessionID, err)
	}

	stage := string(sess.Stage)
	res := e.advance(ctx, sess, strings.TrimSpace(message))

	if err := e.store.Put(ctx, sessionID, sess); err != nil {
		return nil, apperrors.NewSessionSaveFailedError(sessionID, err)
	}

	metrics.ConversationTurns.WithLabelValues(stage).Inc()
	metrics.TurnDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if e.obs != nil {
		e.obs.RecordTurn(ctx, stage)
		e.obs.RecordTurnDuration(ctx, time.Since(start), stage)
	}

	return res, nil
}

func (e *Engine) advance(ctx context.Context, sess *session.Session, message string) *Result {
	res := &Result{SessionID: sess.ID}

	switch sess.Stage {
	case session.StageAwaitingIntent:
		if message == "" {
			res.Reply = replyGreeting
			break
		}
		sess.Intent = intent.Classify(message)
		metrics.IntentClassified.WithLabelValues(string(sess.Intent)).Inc()

		// The opening message often carries the name already
		// ("Hi, I'm Maria and I'm hungry"). Pattern matches only;
		// a bare short utterance here is a request, not a name.
		if name, ok := extract.Name(message, false); ok {
			sess.Set(session.FieldName, name)
		}
		sess.Stage = sess.NextStage()
		res.Reply = e.promptFor(sess)

	case session.StageAwaitingName:
		if name, ok := extract.Name(message, true); ok {
			sess.Set(session.FieldName, name)
			sess.Stage = sess.NextStage()
			res.Reply = e.promptFor(sess)
		} else {
			metrics.ExtractionMisses.WithLabelValues(session.FieldName).Inc()
			res.Reply = replyAskName
		}

	case session.StageAwaitingAge:
		if age, ok := extract.Age(message); ok {
			sess.Set(session.FieldAge, strconv.Itoa(age))
			sess.Stage = sess.NextStage()
			res.Reply = e.promptFor(sess)
		} else {
			metrics.ExtractionMisses.WithLabelValues(session.FieldAge).Inc()
			res.Reply = replyAgeHint
		}

	case session.StageAwaitingLocation:
		if loc, ok := extract.Location(message, true); ok {
			sess.Set(session.FieldLocation, loc)
			sess.Stage = sess.NextStage()
			res.Reply = e.promptFor(sess)
		} else {
			metrics.ExtractionMisses.WithLabelValues(session.FieldLocation).Inc()
			res.Reply = replyAskLocation
		}

	case session.StageAwaitingFoodNeed:
		food, ok := extract.FoodRequest(message, true)
		if !ok {
			metrics.ExtractionMisses.WithLabelValues(session.FieldFood).Inc()
			res.Reply = replyAskFood
			break
		}
		sess.Set(session.FieldFood, food)
		res.DispatchFailed = e.dispatch(ctx, sess)
		sess.Complete()
		res.Reply = fmt.Sprintf(replyConfirmation, sess.Collected[session.FieldName])

	case session.StageCompleted:
		res.Reply = replyClosing

	default:
		stageErr := apperrors.NewInvalidStageError(sess.ID, string(sess.Stage))
		e.log.WithError(stageErr).Error("Conversation in unknown stage", map[string]interface{}{
			"sessionId": sess.ID,
			"stage":     sess.Stage,
		})
		res.Reply = replyApology
	}

	res.Intent = sess.Intent
	if sess.Intent != "" {
		res.AssistanceType = sess.Intent.AssistanceType()
	}
	return res
}

// dispatch hands the completed request to fulfillment at most once per
// session. A dispatcher failure is reported back as a warning but never
// blocks the user-facing confirmation.
func (e *Engine) dispatch(ctx context.Context, sess *session.Session) bool {
	if sess.Fulfilled {
		return false
	}

	age, _ := strconv.Atoi(sess.Collected[session.FieldAge])
	rec := &fulfillment.Record{
		PersonName:     sess.Collected[session.FieldName],
		Age:            age,
		Location:       sess.Collected[session.FieldLocation],
		FoodRequest:    sess.Collected[session.FieldFood],
		AssistanceType: sess.Intent.AssistanceType(),
		SessionID:      sess.ID,
		Status:         fulfillment.StatusPending,
	}

	if err := e.dispatcher.Dispatch(ctx, rec); err != nil {
		e.log.WithError(err).Error("Fulfillment dispatch failed", map[string]interface{}{
			"sessionId": sess.ID,
		})
		return true
	}

	e.log.Info("Fulfillment dispatched", map[string]interface{}{
		"sessionId":      sess.ID,
		"requestId":      rec.ID,
		"assistanceType": rec.AssistanceType,
	})
	return false
}

func (e *Engine) promptFor(sess *session.Session) string {
	switch sess.Stage {
	case session.StageAwaitingName:
		return replyAskName
	case session.StageAwaitingAge:
		return fmt.Sprintf(replyAskAge, sess.Collected[session.FieldName])
	case session.StageAwaitingLocation:
		return replyAskLocation
	case session.StageAwaitingFoodNeed:
		return replyAskFood
	default:
		return replyClosing
	}
}
