package domain

// OptionView is an option as presented to the respondent.
type OptionView struct {
	ID       OptionID `json:"id"`
	Label    string   `json:"label"`
	Selected bool     `json:"selected"`
	Terminal bool     `json:"terminal"`
}

// PillarProgress is the live score of a pillar during traversal.
// Percentage is relative to every declared question of the pillar.
type PillarProgress struct {
	PillarID   PillarID `json:"pillar_id"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon,omitempty"`
	Percentage int      `json:"percentage"`
}

// View is the presentation model of a session, rebuilt on every call.
type View struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`

	QuestionID QuestionID   `json:"question_id"`
	Text       string       `json:"text"`
	Help       string       `json:"help,omitempty"`
	Pillar     Pillar       `json:"pillar"`
	Options    []OptionView `json:"options"`

	CanGoBack  bool `json:"can_go_back"`
	CanAdvance bool `json:"can_advance"`
	CanFinish  bool `json:"can_finish"`

	// Position is the 1-based depth in the history stack.
	Position int `json:"position"`
	Total    int `json:"total"`
	Progress int `json:"progress"`

	PillarProgress []PillarProgress `json:"pillar_progress,omitempty"`
}
