package analysis

// Token represents a single token produced by a token stream.
// Text is always source[OffsetFrom:OffsetTo].
type Token struct {
	Text       string `json:"text"`
	OffsetFrom int    `json:"offset_from"`
	OffsetTo   int    `json:"offset_to"`
	Position   int    `json:"position"`
}

// Reset clears the token text. Offsets and position are left as they are.
func (t *Token) Reset() {
	t.Text = ""
}

// Clone returns a copy of the token that is safe to retain after the
// stream that produced it advances again.
func (t *Token) Clone() Token {
	return *t
}

// Tokenizer creates token streams over text.
// Implementations MUST be stateless so one instance can serve any number of
// concurrent streams.
type Tokenizer interface {
	TokenStream(text string) TokenStream
}

// TokenStream is a single left-to-right scan over a text.
// A stream is not safe for concurrent use.
type TokenStream interface {
	// Advance moves to the next token. It returns false once the input is
	// exhausted; the current token must not be read after that.
	Advance() bool
	// Token returns the token populated by the last successful Advance.
	// The returned value is reused by the stream.
	Token() *Token
}

// Process advances ts until it is exhausted, calling visit for every token.
// It returns the number of tokens visited.
func Process(ts TokenStream, visit func(*Token)) int {
	n := 0
	for ts.Advance() {
		visit(ts.Token())
		n++
	}
	return n
}

// Analyzer processes text into a slice of tokens.
type Analyzer interface {
	// Analyze tokenizes the input text and returns tokens with positions.
	Analyze(field string, text string) []Token
}

// TokenizerAnalyzer adapts a Tokenizer to the Analyzer interface by
// collecting every token of a stream.
type TokenizerAnalyzer struct {
	tokenizer Tokenizer
}

// NewTokenizerAnalyzer creates an Analyzer backed by t.
func NewTokenizerAnalyzer(t Tokenizer) *TokenizerAnalyzer {
	return &TokenizerAnalyzer{tokenizer: t}
}

// Analyze returns all tokens of text. The field name is ignored.
func (a *TokenizerAnalyzer) Analyze(_ string, text string) []Token {
	var tokens []Token
	Process(a.tokenizer.TokenStream(text), func(tok *Token) {
		tokens = append(tokens, tok.Clone())
	})
	return tokens
}
