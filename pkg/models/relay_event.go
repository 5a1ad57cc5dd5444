package models

import "time"

type Outcome string

const (
	OutcomeNoCandidate   Outcome = "no_candidate"
	OutcomeInvalidFormat Outcome = "invalid_format"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeUnavailable   Outcome = "unavailable"
	OutcomeReported      Outcome = "reported"
)

// RelayEvent records how one inbound message was answered.
type RelayEvent struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	MessageID  string    `json:"message_id,omitempty"`
	Sender     string    `json:"sender"`
	Identifier string    `json:"identifier,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Filed      *bool     `json:"filed,omitempty"`
	Alerted    bool      `json:"alerted"`
	TraceID    string    `json:"trace_id,omitempty"`
	At         time.Time `json:"at"`
}
