// internal/accuracy/types.go
package accuracy

// Suite is the set of questions an accuracy run asks.
type Suite struct {
	Tests []QuestionTest `json:"tests"`
}

// QuestionTest is one question and the answers accepted as correct.
type QuestionTest struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// Result records a single pipeline answer and how it scored.
type Result struct {
	Timestamp        string   `json:"timestamp"`
	QuestionID       string   `json:"questionId"`
	Question         string   `json:"question"`
	ExpectedAnswers  []string `json:"expectedAnswers"`
	Response         string   `json:"response"`
	PassageID        int      `json:"passageId"`
	CombinedScore    float64  `json:"combinedScore"`
	ExactMatch       bool     `json:"exactMatch"`
	F1               float64  `json:"f1"`
	TopK             int      `json:"topK"`
	DurationMs       int64    `json:"durationMs"`
	DeadlineExceeded bool     `json:"deadlineExceeded"`
	Error            string   `json:"error,omitempty"`
}

// Summary aggregates a run. ExactMatch and F1 are means over Questions, with
// errored questions counted as zero.
type Summary struct {
	Questions  int     `json:"questions"`
	Errors     int     `json:"errors"`
	ExactMatch float64 `json:"exactMatch"`
	F1         float64 `json:"f1"`
}
