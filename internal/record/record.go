package record

// Kind distinguishes plain questions from multi-item batteries
type Kind string

const (
	KindQuestion Kind = "question"
	KindBattery  Kind = "battery"
)

// Record is one question or battery as observed in a single wave.
// Records are created at ingestion and never mutated afterwards.
type Record struct {
	ID             string   `json:"id"`
	Wave           int      `json:"wave"`
	Variable       string   `json:"variable"`
	Kind           Kind     `json:"kind"`
	RawText        string   `json:"raw_text"`
	NormalizedText string   `json:"normalized_text"`
	Alternatives   []string `json:"alternatives"`
	SubItems       []string `json:"sub_items,omitempty"`
	StemVariable   string   `json:"stem_variable,omitempty"`
}

// RawRecord is the input-boundary shape produced by the extraction tooling,
// before validation and normalization.
type RawRecord struct {
	Wave         int      `json:"wave"`
	Variable     string   `json:"variable"`
	Kind         Kind     `json:"kind,omitempty"`
	QuestionText string   `json:"question_text"`
	Alternatives []string `json:"response_alternatives"`
	SubItems     []string `json:"sub_items,omitempty"`
}
