// Package fulfillment persists confirmed food assistance requests and
// notifies downstream partners.
package fulfillment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	apperrors "zerohunger-chat/internal/common/errors"
)

// Request status lifecycle.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Record is a fully collected food assistance request ready for dispatch.
type Record struct {
	ID             string    `json:"id"`
	PersonName     string    `json:"person_name"`
	Age            int       `json:"age"`
	Location       string    `json:"location"`
	FoodRequest    string    `json:"food_request"`
	AssistanceType string    `json:"assistance_type"`
	SessionID      string    `json:"session_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

var recordSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"person_name", "age", "location", "food_request",
		"assistance_type", "session_id", "status",
	},
	"properties": map[string]interface{}{
		"person_name":  map[string]interface{}{"type": "string", "minLength": 1},
		"age":          map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 120},
		"location":     map[string]interface{}{"type": "string", "minLength": 1},
		"food_request": map[string]interface{}{"type": "string", "minLength": 1},
		"assistance_type": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"immediate", "scheduled", "ngo_referral"},
		},
		"session_id": map[string]interface{}{"type": "string", "minLength": 1},
		"status": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled},
		},
	},
}

// Validate checks the record against the request schema before it is
// persisted or sent anywhere.
func (r *Record) Validate() error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(recordSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return apperrors.NewRecordValidationFailedError(strings.Join(problems, "; "))
	}
	return nil
}
