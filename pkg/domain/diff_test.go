package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	active := StatusActive
	completed := StatusCompleted
	q1 := AnswerRecord{QuestionID: "q1", OptionID: "a", Score: 4, PillarID: "GOV"}
	q1b := AnswerRecord{QuestionID: "q1", OptionID: "b", Score: 1, PillarID: "GOV"}

	tests := []struct {
		name     string
		old      *State
		new      *State
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &State{
				SessionID:         "sess-1",
				CurrentQuestionID: "q1",
				Status:            StatusActive,
				History:           []QuestionID{"q1"},
			},
			wantDiff: &StateDiff{
				SessionID:         "sess-1",
				CurrentQuestionID: ptr(QuestionID("q1")),
				Status:            &active,
				History:           &HistoryDelta{Appended: []QuestionID{"q1"}},
			},
		},
		{
			name: "No Changes",
			old: &State{
				SessionID:         "sess-1",
				CurrentQuestionID: "q1",
				Status:            StatusActive,
				History:           []QuestionID{"q1"},
				Answers:           map[QuestionID]AnswerRecord{"q1": q1},
			},
			new: &State{
				SessionID:         "sess-1",
				CurrentQuestionID: "q1",
				Status:            StatusActive,
				History:           []QuestionID{"q1"},
				Answers:           map[QuestionID]AnswerRecord{"q1": q1},
			},
			wantDiff: nil,
		},
		{
			name: "Answer Recorded",
			old: &State{
				SessionID: "sess-1",
				History:   []QuestionID{"q1"},
			},
			new: &State{
				SessionID: "sess-1",
				History:   []QuestionID{"q1"},
				Answers:   map[QuestionID]AnswerRecord{"q1": q1},
			},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Answers:   map[QuestionID]*AnswerRecord{"q1": &q1},
			},
		},
		{
			name: "Answer Replaced",
			old: &State{
				Answers: map[QuestionID]AnswerRecord{"q1": q1},
			},
			new: &State{
				Answers: map[QuestionID]AnswerRecord{"q1": q1b},
			},
			wantDiff: &StateDiff{
				Answers: map[QuestionID]*AnswerRecord{"q1": &q1b},
			},
		},
		{
			name: "Advance Appends History",
			old: &State{
				SessionID:         "sess-1",
				CurrentQuestionID: "q1",
				History:           []QuestionID{"q1"},
			},
			new: &State{
				SessionID:         "sess-1",
				CurrentQuestionID: "q2",
				History:           []QuestionID{"q1", "q2"},
			},
			wantDiff: &StateDiff{
				SessionID:         "sess-1",
				CurrentQuestionID: ptr(QuestionID("q2")),
				History:           &HistoryDelta{Appended: []QuestionID{"q2"}},
			},
		},
		{
			name: "Back Pops History And Deletes Answer",
			old: &State{
				CurrentQuestionID: "q2",
				History:           []QuestionID{"q1", "q2"},
				Answers:           map[QuestionID]AnswerRecord{"q1": q1, "q2": {QuestionID: "q2"}},
			},
			new: &State{
				CurrentQuestionID: "q1",
				History:           []QuestionID{"q1"},
				Answers:           map[QuestionID]AnswerRecord{"q1": q1},
			},
			wantDiff: &StateDiff{
				CurrentQuestionID: ptr(QuestionID("q1")),
				Answers:           map[QuestionID]*AnswerRecord{"q2": nil},
				History:           &HistoryDelta{Popped: 1},
			},
		},
		{
			name: "Completed",
			old: &State{
				CurrentQuestionID: "q2",
				Status:            StatusActive,
			},
			new: &State{
				CurrentQuestionID: "q2",
				Status:            StatusCompleted,
			},
			wantDiff: &StateDiff{
				Status: &completed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %v", tt.wantDiff)
			}

			if got.SessionID != tt.wantDiff.SessionID {
				t.Errorf("Diff().SessionID = %v, want %v", got.SessionID, tt.wantDiff.SessionID)
			}
			if !reflect.DeepEqual(got.Answers, tt.wantDiff.Answers) {
				t.Errorf("Diff().Answers = %v, want %v", got.Answers, tt.wantDiff.Answers)
			}
			if !reflect.DeepEqual(got.History, tt.wantDiff.History) {
				t.Errorf("Diff().History = %v, want %v", got.History, tt.wantDiff.History)
			}
			if !equalPtr(got.CurrentQuestionID, tt.wantDiff.CurrentQuestionID) {
				t.Errorf("Diff().CurrentQuestionID = %v, want %v", got.CurrentQuestionID, tt.wantDiff.CurrentQuestionID)
			}
			if !equalPtr(got.Status, tt.wantDiff.Status) {
				t.Errorf("Diff().Status = %v, want %v", got.Status, tt.wantDiff.Status)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Empty Answers Omitted", func(t *testing.T) {
		s1 := &State{CurrentQuestionID: "q1"}
		s2 := &State{CurrentQuestionID: "q2"}
		diff := Diff(s1, s2)
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"answers"`) {
			t.Errorf("JSON should not contain 'answers' when empty, got: %s", string(bytes))
		}
	})

	t.Run("Deletions as Null", func(t *testing.T) {
		s1 := &State{Answers: map[QuestionID]AnswerRecord{"q1": {}, "q2": {}}}
		s2 := &State{Answers: map[QuestionID]AnswerRecord{"q1": {}}}
		diff := Diff(s1, s2)

		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if !strings.Contains(string(bytes), `"q2":null`) {
			t.Errorf("JSON should contain 'q2':null for deletion, got: %s", string(bytes))
		}
	})
}

func TestState_CloneIsDeep(t *testing.T) {
	s := NewState("s1", "q1")
	s.Answers["q1"] = AnswerRecord{QuestionID: "q1", Tags: []string{"GOV_x"}}

	c := s.Clone()
	c.History = append(c.History, "q2")
	rec := c.Answers["q1"]
	rec.Tags[0] = "changed"
	delete(c.Answers, "q1")

	if len(s.History) != 1 {
		t.Errorf("original history mutated: %v", s.History)
	}
	if s.Answers["q1"].Tags[0] != "GOV_x" {
		t.Errorf("original tags mutated: %v", s.Answers["q1"].Tags)
	}
}

func TestState_OrderedAnswersFollowsHistory(t *testing.T) {
	s := &State{
		History: []QuestionID{"b", "a", "c"},
		Answers: map[QuestionID]AnswerRecord{
			"a": {QuestionID: "a"},
			"b": {QuestionID: "b"},
		},
	}
	got := s.OrderedAnswers()
	if len(got) != 2 || got[0].QuestionID != "b" || got[1].QuestionID != "a" {
		t.Errorf("OrderedAnswers() = %v, want [b a]", got)
	}
}

func ptr[T any](v T) *T { return &v }

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
