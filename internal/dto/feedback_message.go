package dto

// FeedbackMessage is the payload published on the feedback topic.
type FeedbackMessage struct {
	TraceID string `json:"trace_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}
