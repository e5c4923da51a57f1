// Package model contains the domain documents passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SlotCount is the number of ranked positions in a prediction and a result.
const SlotCount = 6

// Validation errors for ranked slot lists.
var (
	ErrSlotCount     = errors.New("ranked list must have exactly six entries")
	ErrBlankSlot     = errors.New("ranked list contains a blank entry")
	ErrDuplicateSlot = errors.New("ranked list contains a duplicate entry")
)

// Prediction is one team's ranked guess for one event. Re-submissions create
// a new document for the same (team, event) key with a later SubmittedAt;
// the latest one is authoritative.
type Prediction struct {
	TeamID       string    `json:"team_id"`
	EventID      string    `json:"event_id"`
	Slots        []string  `json:"slots"`
	SubmittedAt  time.Time `json:"submitted_at"`
	CarryForward bool      `json:"carry_forward"`
}

// RaceResult is the official truth for one event. GP and Sprint sessions of
// the same meeting carry distinct event ids and never share a result.
type RaceResult struct {
	EventID     string    `json:"event_id"`
	Order       []string  `json:"order"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Score is one team's computed outcome for one event, keyed by
// (EventID, TeamID) and overwritten deterministically on re-scoring.
type Score struct {
	EventID      string         `json:"event_id"`
	TeamID       string         `json:"team_id"`
	PerSlot      [SlotCount]int `json:"per_slot"`
	Bonus        int            `json:"bonus"`
	Total        int            `json:"total"`
	CarryForward bool           `json:"carry_forward"`
	CalculatedAt time.Time      `json:"calculated_at"`
}

// StandingEntry is a derived, non-persisted leaderboard row. Rank follows
// standard competition ranking: tied totals share a rank and the sequence
// skips values after a tie (1, 1, 3).
type StandingEntry struct {
	Rank        int    `json:"rank"`
	TeamID      string `json:"team_id"`
	TeamName    string `json:"team_name"`
	TotalPoints int    `json:"total_points"`
}

// Team maps a stable team id to its display name. A user owns one primary
// team and, optionally, one secondary team derived from the user id.
type Team struct {
	TeamID    string `json:"team_id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	Secondary bool   `json:"secondary"`
}

// AuditRecord captures one result submission for operator visibility.
type AuditRecord struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Order       []string  `json:"order"`
	SubmitterID string    `json:"submitter_id"`
	TeamsScored int       `json:"teams_scored"`
	CreatedAt   time.Time `json:"created_at"`
}

// SecondaryTeamID derives the id of a user's secondary team.
func SecondaryTeamID(userID string) string {
	return userID + "-2"
}

// ValidateOrder checks that a ranked list holds exactly six distinct,
// non-blank competitor ids and returns it as a fixed-size array.
func ValidateOrder(order []string) ([SlotCount]string, error) {
	var fixed [SlotCount]string
	if len(order) != SlotCount {
		return fixed, fmt.Errorf("%w: got %d", ErrSlotCount, len(order))
	}
	seen := make(map[string]struct{}, SlotCount)
	for i, id := range order {
		id = strings.TrimSpace(id)
		if id == "" {
			return fixed, fmt.Errorf("%w: position %d", ErrBlankSlot, i+1)
		}
		if _, dup := seen[id]; dup {
			return fixed, fmt.Errorf("%w: %s", ErrDuplicateSlot, id)
		}
		seen[id] = struct{}{}
		fixed[i] = id
	}
	return fixed, nil
}

// NormalizedSlots validates the prediction's ranked list. Malformed stored
// predictions must never reach the scoring engine.
func (p Prediction) NormalizedSlots() ([SlotCount]string, error) {
	return ValidateOrder(p.Slots)
}

// NormalizedOrder validates the result's ranked list.
func (r RaceResult) NormalizedOrder() ([SlotCount]string, error) {
	return ValidateOrder(r.Order)
}
