// Package analysis runs one user action through the guarded pipeline:
// guard, prompt construction, completion, session append. The guard is a
// hard gate; no network call happens unless every check passes.
package analysis

import (
	"context"
	"fmt"

	"github.com/insightxpress/server/internal/chart"
	"github.com/insightxpress/server/internal/completion"
	errx "github.com/insightxpress/server/internal/core/error"
	"github.com/insightxpress/server/internal/guard"
	"github.com/insightxpress/server/internal/model"
	"github.com/insightxpress/server/internal/prompt"
	"github.com/insightxpress/server/internal/session"
	logx "github.com/insightxpress/server/pkg/logger"
)

// Pipeline wires the guard, the prompt builder and the completion client
// for one deployment variant. A nil completer keeps the pipeline disabled
// without crashing the process.
type Pipeline struct {
	guard       *guard.Validator
	builder     *prompt.Builder
	completer   completion.Completer
	previewRows int
}

// New assembles the pipeline.
func New(g *guard.Validator, b *prompt.Builder, c completion.Completer, previewRows int) *Pipeline {
	return &Pipeline{guard: g, builder: b, completer: c, previewRows: previewRows}
}

// Enabled reports whether completion calls can be made at all.
func (p *Pipeline) Enabled() bool {
	return p.completer != nil
}

func (p *Pipeline) disabled() error {
	return errx.New(nil, errx.KindConfiguration, errx.PipelineDisabledMessage)
}

// checkTable rejects before any text validation when no usable table is
// loaded, independent of the action.
func (p *Pipeline) checkTable(sess *session.Session) error {
	if sess.Table == nil {
		return errx.New(nil, errx.KindInputRejected, "Por favor, carregue uma planilha e descreva o contexto antes de analisar.")
	}
	if sess.Table.Empty() {
		return errx.New(nil, errx.KindInputRejected, "A planilha enviada está vazia e não pode ser analisada.")
	}
	return nil
}

func (p *Pipeline) validate(ctx context.Context, text string) error {
	if out := p.guard.Validate(ctx, text); !out.Passed() {
		logx.Debug().Int("outcome", int(out)).Msg("input rejected by guard")
		return errx.New(nil, errx.KindInputRejected, p.guard.Message(out))
	}
	return nil
}

// Analyze starts a new top-level analysis: validates the context, sends the
// initial envelope and, on success, resets the conversation history and both
// counters before appending the analysis turn. On failure prior state is
// left untouched.
func (p *Pipeline) Analyze(ctx context.Context, sess *session.Session, userContext string) error {
	if !p.Enabled() {
		return p.disabled()
	}
	if err := p.checkTable(sess); err != nil {
		return err
	}
	if err := p.validate(ctx, userContext); err != nil {
		return err
	}

	preview := sess.Table.Preview(p.previewRows)
	env, err := p.builder.Build(ctx, model.PromptInitial, model.AnalysisRequest{
		Context: userContext,
		Preview: preview,
	})
	if err != nil {
		return errx.New(err, errx.KindUnexpected, errx.SystemErrorMessage)
	}

	text, err := p.completer.Complete(ctx, env)
	if err != nil {
		return err
	}

	sess.ResetAnalysis(userContext, preview)
	sess.AppendAnalysis(text)
	return nil
}

// FollowUp answers one more question about the original context and data.
// The envelope re-embeds the originals captured at analysis time, never
// intermediate model outputs.
func (p *Pipeline) FollowUp(ctx context.Context, sess *session.Session, question string) error {
	if !p.Enabled() {
		return p.disabled()
	}
	if sess.Limits.FollowUpsExhausted() {
		return errx.New(nil, errx.KindInputRejected,
			fmt.Sprintf("Você atingiu o limite de %d perguntas por análise.", sess.Limits.FollowUpsMax))
	}
	if len(sess.Turns) == 0 {
		return errx.New(nil, errx.KindInputRejected, "Faça uma análise antes de enviar perguntas de acompanhamento.")
	}
	if err := p.checkTable(sess); err != nil {
		return err
	}
	if err := p.validate(ctx, question); err != nil {
		return err
	}

	env, err := p.builder.Build(ctx, model.PromptFollowUp, model.AnalysisRequest{
		Context:  sess.Context,
		Preview:  sess.Preview,
		Question: question,
	})
	if err != nil {
		return errx.New(err, errx.KindUnexpected, errx.SystemErrorMessage)
	}

	answer, err := p.completer.Complete(ctx, env)
	if err != nil {
		return err
	}

	sess.AppendFollowUp(question, answer)
	return nil
}

// Chart renders one more figure from the loaded table. No remote service is
// involved; when the graph limit is reached the action is rejected without
// touching the counter.
func (p *Pipeline) Chart(_ context.Context, sess *session.Session, req chart.Request) error {
	if sess.Limits.GraphsExhausted() {
		return errx.New(nil, errx.KindInputRejected,
			fmt.Sprintf("Você atingiu o limite de %d gráficos por análise.", sess.Limits.GraphsMax))
	}
	if len(sess.Turns) == 0 {
		return errx.New(nil, errx.KindInputRejected, "Faça uma análise antes de gerar gráficos.")
	}
	if err := p.checkTable(sess); err != nil {
		return err
	}

	png, err := chart.Render(sess.Table, req)
	if err != nil {
		return err
	}

	sess.AppendChart(png)
	return nil
}
