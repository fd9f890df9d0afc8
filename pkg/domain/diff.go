package domain

import (
	"reflect"
)

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentQuestionID *QuestionID    `json:"current_question_id,omitempty"`
	Status            *SessionStatus `json:"status,omitempty"`

	// Answers contains only changed, added or deleted records.
	// For deletions, the key is present with a nil value.
	// Clients should merge these updates into their local state.
	Answers map[QuestionID]*AnswerRecord `json:"answers,omitempty"`

	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the history stack.
// Popped counts entries removed from the top before Appended is pushed.
type HistoryDelta struct {
	Popped   int          `json:"popped,omitempty"`
	Appended []QuestionID `json:"appended,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	// 1. Position & Status
	if oldState == nil || oldState.CurrentQuestionID != newState.CurrentQuestionID {
		diff.CurrentQuestionID = &newState.CurrentQuestionID
	}
	if oldState == nil || oldState.Status != newState.Status {
		diff.Status = &newState.Status
	}

	// 2. Answers
	diff.Answers = diffAnswers(oldState, newState)

	// 3. History
	diff.History = diffHistory(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffAnswers(old *State, new *State) map[QuestionID]*AnswerRecord {
	delta := make(map[QuestionID]*AnswerRecord)

	if old == nil {
		for k, v := range new.Answers {
			delta[k] = &v
		}
	} else {
		for k, newVal := range new.Answers {
			oldVal, exists := old.Answers[k]
			if !exists || !reflect.DeepEqual(oldVal, newVal) {
				delta[k] = &newVal
			}
		}
		for k := range old.Answers {
			if _, exists := new.Answers[k]; !exists {
				delta[k] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffHistory finds the common prefix and reports what was popped and pushed past it.
func diffHistory(old *State, new *State) *HistoryDelta {
	if old == nil {
		if len(new.History) == 0 {
			return nil
		}
		return &HistoryDelta{Appended: append([]QuestionID(nil), new.History...)}
	}

	common := 0
	for common < len(old.History) && common < len(new.History) && old.History[common] == new.History[common] {
		common++
	}

	popped := len(old.History) - common
	appended := new.History[common:]
	if popped == 0 && len(appended) == 0 {
		return nil
	}

	delta := &HistoryDelta{Popped: popped}
	if len(appended) > 0 {
		delta.Appended = append([]QuestionID(nil), appended...)
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentQuestionID == nil &&
		d.Status == nil &&
		len(d.Answers) == 0 &&
		d.History == nil
}
