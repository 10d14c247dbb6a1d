// Package session holds per-session conversation state: the ordered turn
// history plus the two bounded action counters. State is mutated only by the
// turn currently running; there is no shared mutable state across sessions.
package session

import (
	"github.com/insightxpress/server/internal/dataset"
)

// TurnKind names the three turn variants of the conversation history.
type TurnKind string

const (
	TurnAnalysis TurnKind = "analysis"
	TurnChart    TurnKind = "chart"
	TurnFollowUp TurnKind = "follow_up"
)

// Turn is one entry in the conversation history. Created only as the result
// of a successful guarded pipeline run.
type Turn struct {
	Kind     TurnKind `json:"kind"`
	Content  string   `json:"content,omitempty"`
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	ChartPNG []byte   `json:"chart_png,omitempty"`
}

// Limits tracks the per-analysis action counters. Counters reset together
// when a new top-level analysis starts and are never decremented.
type Limits struct {
	GraphsUsed    int `json:"graphs_used"`
	GraphsMax     int `json:"graphs_max"`
	FollowUpsUsed int `json:"follow_ups_used"`
	FollowUpsMax  int `json:"follow_ups_max"`
}

// GraphsExhausted reports whether another chart may be generated.
func (l Limits) GraphsExhausted() bool {
	return l.GraphsUsed >= l.GraphsMax
}

// FollowUpsExhausted reports whether another follow-up may be asked.
func (l Limits) FollowUpsExhausted() bool {
	return l.FollowUpsUsed >= l.FollowUpsMax
}

// Session is the whole state of one user session. Context and Preview are
// captured when an analysis starts and re-embedded verbatim in follow-up
// prompts.
type Session struct {
	ID      string         `json:"id"`
	Context string         `json:"context"`
	Preview string         `json:"preview"`
	Table   *dataset.Table `json:"table,omitempty"`
	Turns   []Turn         `json:"turns"`
	Limits  Limits         `json:"limits"`
}

// New creates an empty session with zeroed counters.
func New(id string, maxGraphs, maxFollowUps int) *Session {
	return &Session{
		ID: id,
		Limits: Limits{
			GraphsMax:    maxGraphs,
			FollowUpsMax: maxFollowUps,
		},
	}
}

// ResetAnalysis clears the conversation history and both counters, the
// mandatory first step of every new top-level analysis.
func (s *Session) ResetAnalysis(context, preview string) {
	s.Context = context
	s.Preview = preview
	s.Turns = nil
	s.Limits.GraphsUsed = 0
	s.Limits.FollowUpsUsed = 0
}

// AppendAnalysis records the initial narrative analysis turn.
func (s *Session) AppendAnalysis(text string) {
	s.Turns = append(s.Turns, Turn{Kind: TurnAnalysis, Content: text})
}

// AppendChart records a rendered chart turn and spends one graph credit.
func (s *Session) AppendChart(png []byte) {
	s.Turns = append(s.Turns, Turn{Kind: TurnChart, ChartPNG: png})
	s.Limits.GraphsUsed++
}

// AppendFollowUp records a question/answer turn and spends one follow-up
// credit.
func (s *Session) AppendFollowUp(question, answer string) {
	s.Turns = append(s.Turns, Turn{Kind: TurnFollowUp, Question: question, Answer: answer})
	s.Limits.FollowUpsUsed++
}
