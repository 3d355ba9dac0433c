package analysis

// WhitespacePuncTokenizer splits text on ASCII whitespace. Punctuation is
// kept as part of the surrounding run, so "Hello," is a single token.
type WhitespacePuncTokenizer struct{}

// NewWhitespacePuncTokenizer creates a new WhitespacePuncTokenizer.
func NewWhitespacePuncTokenizer() *WhitespacePuncTokenizer {
	return &WhitespacePuncTokenizer{}
}

// TokenStream returns a fresh stream over text.
func (t *WhitespacePuncTokenizer) TokenStream(text string) TokenStream {
	return &whitespacePuncStream{
		text:  text,
		token: Token{Position: -1},
	}
}

type whitespacePuncStream struct {
	text   string
	cursor int
	token  Token
}

// Advance finds the next run of non-whitespace bytes.
// The position counter moves on every call, including the ones that find
// nothing; int overflow wraps.
func (s *whitespacePuncStream) Advance() bool {
	s.token.Reset()
	s.token.Position++

	for s.cursor < len(s.text) && isASCIISpace(s.text[s.cursor]) {
		s.cursor++
	}
	if s.cursor >= len(s.text) {
		return false
	}

	from := s.cursor
	s.cursor = s.searchTokenEnd()

	s.token.OffsetFrom = from
	s.token.OffsetTo = s.cursor
	s.token.Text = s.text[from:s.cursor]
	return true
}

func (s *whitespacePuncStream) Token() *Token {
	return &s.token
}

// searchTokenEnd returns the offset of the first whitespace byte after the
// cursor, or len(text). Multi-byte UTF-8 sequences never contain ASCII
// bytes, so scanning bytes keeps runes intact.
func (s *whitespacePuncStream) searchTokenEnd() int {
	for i := s.cursor; i < len(s.text); i++ {
		if isASCIISpace(s.text[i]) {
			return i
		}
	}
	return len(s.text)
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
