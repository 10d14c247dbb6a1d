package guard

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	logx "github.com/insightxpress/server/pkg/logger"
)

// Budget bounds user input by an approximate token budget. The boundary is
// inclusive: text exactly at the limit passes.
type Budget interface {
	Within(text string) bool
	Describe() string
}

// TokenBudget counts tokens with the cl100k_base tokenizer, falling back to
// a word-count estimate when the tokenizer cannot be loaded.
type TokenBudget struct {
	limit int

	once   sync.Once
	enc    *tiktoken.Tiktoken
	encErr error
}

// NewTokenBudget creates a budget of limit tokens. The tokenizer is loaded
// lazily on first use and memoized for the life of the process.
func NewTokenBudget(limit int) *TokenBudget {
	return &TokenBudget{limit: limit}
}

func (b *TokenBudget) Within(text string) bool {
	b.once.Do(func() {
		b.enc, b.encErr = tiktoken.GetEncoding("cl100k_base")
		if b.encErr != nil {
			logx.Warn().Err(b.encErr).Msg("tokenizer unavailable, using word-count estimate")
		}
	})
	if b.encErr != nil || b.enc == nil {
		// ~0.75 words per token is the usual rule of thumb.
		return len(strings.Fields(text)) <= int(float64(b.limit)*0.75)
	}
	return len(b.enc.Encode(text, nil, nil)) <= b.limit
}

func (b *TokenBudget) Describe() string {
	return fmt.Sprintf("%d tokens", b.limit)
}

// CharBudget approximates the token budget as a plain character multiple,
// for the variant that carries no tokenizer.
type CharBudget struct {
	limit int
}

// charsPerToken is the flat characters-per-token approximation.
const charsPerToken = 4

// NewCharBudget creates a budget equivalent to limit tokens.
func NewCharBudget(limit int) *CharBudget {
	return &CharBudget{limit: limit}
}

func (b *CharBudget) Within(text string) bool {
	return utf8.RuneCountInString(text) <= b.limit*charsPerToken
}

func (b *CharBudget) Describe() string {
	return fmt.Sprintf("%d caracteres", b.limit*charsPerToken)
}
