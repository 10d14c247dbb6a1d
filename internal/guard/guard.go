// Package guard gates every remote model call: no completion request is made
// unless the live user input passes every check, in a fixed order.
package guard

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	logx "github.com/insightxpress/server/pkg/logger"
)

// Outcome is the result of validating one piece of free-text user input.
// Exactly one variant holds per evaluation.
type Outcome int

const (
	Accepted Outcome = iota
	RejectedEmpty
	RejectedMeaningless
	RejectedUnsafe
	RejectedTooLarge
)

// minInputRunes is the minimum trimmed input length. Kept literal for
// behavioral parity with the deployed heuristic.
const minInputRunes = 5

// minVowelRatio is the vowel-to-letter ratio below which input counts as
// keyboard noise. Deliberately crude, tuned empirically; kept literal.
const minVowelRatio = 0.15

// Passed reports whether the input may proceed to prompt construction.
func (o Outcome) Passed() bool {
	return o == Accepted
}

// Moderator submits text to a hosted moderation endpoint.
type Moderator interface {
	Flagged(ctx context.Context, input string) (bool, error)
}

// Validator applies the guard checks in order: emptiness, meaningfulness,
// safety (when the variant has a moderation endpoint), size.
type Validator struct {
	budget       Budget
	moderator    Moderator
	moderationOn bool
}

// NewValidator builds a validator without a safety check, the shape used by
// the variant whose provider exposes no moderation endpoint.
func NewValidator(budget Budget) *Validator {
	return &Validator{budget: budget}
}

// WithModeration enables the safety check. A nil moderator still counts as
// enabled: an unavailable client fails closed.
func (v *Validator) WithModeration(m Moderator) *Validator {
	v.moderator = m
	v.moderationOn = true
	return v
}

// Validate runs the checks in their fixed order, short-circuiting on the
// first failure.
func (v *Validator) Validate(ctx context.Context, text string) Outcome {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minInputRunes {
		return RejectedEmpty
	}

	if !meaningful(text) {
		return RejectedMeaningless
	}

	if v.moderationOn {
		if v.moderator == nil {
			return RejectedUnsafe
		}
		flagged, err := v.moderator.Flagged(ctx, text)
		if err != nil {
			logx.Warn().Err(err).Msg("moderation check failed, blocking input")
			return RejectedUnsafe
		}
		if flagged {
			return RejectedUnsafe
		}
	}

	if !v.budget.Within(text) {
		return RejectedTooLarge
	}

	return Accepted
}

// Message returns the distinct user-facing explanation for a rejection.
func (v *Validator) Message(o Outcome) string {
	switch o {
	case RejectedEmpty:
		return "A entrada é muito curta. Use pelo menos 5 caracteres."
	case RejectedMeaningless:
		return "A entrada fornecida parece ser aleatória ou sem sentido. Por favor, forneça um contexto ou pergunta clara."
	case RejectedUnsafe:
		return "A entrada (contexto ou pergunta) foi sinalizada como insegura e não pode ser processada."
	case RejectedTooLarge:
		return "A entrada excede o limite de " + v.budget.Describe() + "."
	default:
		return ""
	}
}

// meaningful applies the vowel-ratio heuristic: keep only letters,
// lower-cased; no letters rejects, and so does a vowel ratio below the
// threshold. Accented vowels intentionally do not count.
func meaningful(text string) bool {
	var letters, vowels int
	for _, r := range strings.ToLower(text) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			vowels++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(vowels)/float64(letters) >= minVowelRatio
}
