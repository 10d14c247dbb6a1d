// Package prompt assembles the system+user envelope for each guarded
// pipeline run. The user message wraps context, data preview and (for
// follow-ups) the new question in named delimiter tags so the model can
// structurally tell trusted instructions from user-supplied content.
package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/insightxpress/server/internal/model"
)

//go:embed template/initial_system.txt
var initialSystem string

//go:embed template/followup_system.txt
var followUpSystem string

//go:embed template/initial_user.txt
var initialUser string

//go:embed template/followup_user.txt
var followUpUser string

// Builder renders prompt envelopes for one deployment variant.
type Builder struct {
	previewRows int
}

// NewBuilder creates a builder whose user messages name the variant's
// preview row cap.
func NewBuilder(previewRows int) *Builder {
	return &Builder{previewRows: previewRows}
}

// Build assembles the envelope for the given turn kind. An initial envelope
// embeds only context and data; a follow-up re-embeds the original context
// and the original data preview alongside the new question, in the fixed
// order context, data, question.
func (b *Builder) Build(ctx context.Context, kind model.PromptKind, req model.AnalysisRequest) (model.PromptEnvelope, error) {
	systemTmpl, userTmpl := initialSystem, initialUser
	if kind == model.PromptFollowUp {
		if strings.TrimSpace(req.Question) == "" {
			return model.PromptEnvelope{}, fmt.Errorf("follow-up prompt requires a question")
		}
		systemTmpl, userTmpl = followUpSystem, followUpUser
	}

	tpl := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(strings.TrimSpace(systemTmpl)),
		schema.UserMessage(strings.TrimSpace(userTmpl)),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"contexto": req.Context,
		"dados":    req.Preview,
		"linhas":   b.previewRows,
		"pergunta": req.Question,
	})
	if err != nil {
		return model.PromptEnvelope{}, fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return model.PromptEnvelope{}, fmt.Errorf("prompt render: unexpected message count %d", len(msgs))
	}

	return model.PromptEnvelope{System: msgs[0].Content, User: msgs[1].Content}, nil
}
