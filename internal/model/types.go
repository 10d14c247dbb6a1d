package model

import (
	"github.com/cloudwego/eino/schema"
)

// PromptKind distinguishes the two turn kinds the builder knows.
type PromptKind int

const (
	PromptInitial PromptKind = iota
	PromptFollowUp
)

// AnalysisRequest carries the validated user inputs of one guarded pipeline
// run. Preview is the rendered tabular text embedded in the prompt; for a
// follow-up, Context and Preview are the originals from the start of the
// analysis, never intermediate model outputs.
type AnalysisRequest struct {
	Context  string
	Preview  string
	Question string
}

// PromptEnvelope is the fully assembled system+user message pair sent to the
// completion API. Constructed fresh per call, not retained.
type PromptEnvelope struct {
	System string
	User   string
}

// Messages converts the envelope to the provider message sequence: exactly
// one system message followed by one user message.
func (e PromptEnvelope) Messages() []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(e.System),
		schema.UserMessage(e.User),
	}
}
