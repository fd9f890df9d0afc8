package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStart         EventType = "start"
	EventQuestionEnter EventType = "question_enter"
	EventQuestionLeave EventType = "question_leave"
	EventAnswer        EventType = "answer"
	EventBack          EventType = "back"
	EventComplete      EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// QuestionEvent represents entry into or exit from a question.
type QuestionEvent struct {
	EventBase
	QuestionID QuestionID `json:"question_id"`
	PillarID   PillarID   `json:"pillar_id"`
}

// AnswerEvent represents a recorded answer.
type AnswerEvent struct {
	EventBase
	Answer AnswerRecord `json:"answer"`
}

// CompleteEvent is fired once a terminal option is advanced past.
type CompleteEvent struct {
	EventBase
	AnsweredCount int `json:"answered_count"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStart         func(context.Context, *QuestionEvent)
	OnQuestionEnter func(context.Context, *QuestionEvent)
	OnQuestionLeave func(context.Context, *QuestionEvent)
	OnAnswer        func(context.Context, *AnswerEvent)
	OnBack          func(context.Context, *QuestionEvent)
	OnComplete      func(context.Context, *CompleteEvent)
}
