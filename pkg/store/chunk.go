package store

// SourcePreviewLength bounds the chunk text echoed back to clients.
const SourcePreviewLength = 200

// ScoredChunk is one vector-search hit: a span of a party's government plan
// with its similarity score relative to the query.
type ScoredChunk struct {
	Text       string  `json:"text"`
	Party      string  `json:"party"`
	DocID      string  `json:"doc_id"`
	ChunkIndex int     `json:"chunk_index"`
	Filename   string  `json:"filename"`
	Score      float64 `json:"score"`
}

// Source is the client-facing view of a chunk used for citations.
type Source struct {
	Party      string  `json:"partido"`
	Filename   string  `json:"filename"`
	Text       string  `json:"text"`
	DocID      string  `json:"doc_id"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// Truncate cuts a string to max runes, appending an ellipsis when it was cut.
// Rune-based so Spanish plan text is never split mid-character.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// NewSource builds the display view of a chunk, truncating the text preview.
func NewSource(c ScoredChunk) Source {
	text := Truncate(c.Text, SourcePreviewLength)
	return Source{
		Party:      c.Party,
		Filename:   c.Filename,
		Text:       text,
		DocID:      c.DocID,
		ChunkIndex: c.ChunkIndex,
		Score:      c.Score,
	}
}
