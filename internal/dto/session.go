package dto

// ExplanationResponse carries a generated explanation to the
// presentation layer as plain structured content.
type ExplanationResponse struct {
	Term        string   `json:"term"`
	Explanation string   `json:"explanation"`
	Examples    []string `json:"examples"`
}

// SaveResponse reports the outcome of persisting a cached result.
// A duplicate save is a normal outcome, distinguishable from success
// only in the acknowledgment text.
type SaveResponse struct {
	Term         string `json:"term"`
	AlreadySaved bool   `json:"already_saved"`
}

// QuizOption is one answer choice plus the self-describing interaction
// token that grades it.
type QuizOption struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// QuizResponse is a built quiz ready for presentation.
type QuizResponse struct {
	Term    string       `json:"term"`
	Options []QuizOption `json:"options"`
}

// GradeRequest carries the values recovered from an answer token.
type GradeRequest struct {
	UserID       int64  `json:"user_id"`
	Term         string `json:"term"`
	ChosenIndex  int    `json:"chosen_index"`
	CorrectIndex int    `json:"correct_index"`
}

// GradeResponse is the graded outcome plus recap content for display.
type GradeResponse struct {
	Correct       bool   `json:"correct"`
	CorrectNumber int    `json:"correct_number"` // 1-based number of the correct option
	Term          string `json:"term"`
	Explanation   string `json:"explanation"`
	FirstExample  string `json:"first_example"`
}

// SavedListResponse is one page of a user's saved terms.
type SavedListResponse struct {
	Terms      []string `json:"terms"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	HasPrev    bool     `json:"has_prev"`
	HasNext    bool     `json:"has_next"`
}
