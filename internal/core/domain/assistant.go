package domain

import "time"

const SchemaVersionAssistantV1 = "nexodify_assistant_v1"

// AssistantAnswer is the bilingual reply contract of the Q&A endpoint.
type AssistantAnswer struct {
	AnswerIT         string   `json:"answer_it"`
	AnswerEN         string   `json:"answer_en"`
	NeedsMoreInfo    string   `json:"needs_more_info"`
	MissingInputs    []string `json:"missing_inputs"`
	SafeDisclaimerIT string   `json:"safe_disclaimer_it"`
	SafeDisclaimerEN string   `json:"safe_disclaimer_en"`
}

type AssistantExchange struct {
	QAID      string          `json:"qa_id"`
	UserID    string          `json:"user_id"`
	CaseID    string          `json:"case_id,omitempty"`
	RunID     string          `json:"run_id"`
	Question  string          `json:"question"`
	Answer    AssistantAnswer `json:"answer"`
	CreatedAt time.Time       `json:"created_at"`
}
