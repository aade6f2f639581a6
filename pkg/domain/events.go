package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLoad     EventType = "load"
	EventSelect   EventType = "select"
	EventAdvance  EventType = "advance"
	EventComplete EventType = "complete"
	EventFailure  EventType = "failure"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time  `json:"timestamp"`
	Type      EventType  `json:"type"`
	SessionID string     `json:"session_id"`
	Key       ContentKey `json:"key"`
}

// StepEvent reports a load, advance or completion.
type StepEvent struct {
	EventBase
	Position int `json:"position"`
	Total    int `json:"total"`
}

// AnswerEvent reports an option selection.
type AnswerEvent struct {
	EventBase
	Position int  `json:"position"`
	Option   int  `json:"option"`
	Correct  bool `json:"correct"`
}

// FailureEvent reports a session entering the error phase.
type FailureEvent struct {
	EventBase
	Kind  FailureKind `json:"kind"`
	Cause string      `json:"cause,omitempty"`
}

// LifecycleHooks defines callbacks for runner observability.
type LifecycleHooks struct {
	OnLoad     func(context.Context, *StepEvent)
	OnSelect   func(context.Context, *AnswerEvent)
	OnAdvance  func(context.Context, *StepEvent)
	OnComplete func(context.Context, *StepEvent)
	OnFailure  func(context.Context, *FailureEvent)
}
