package analysis

// KeywordTokenizer passes the entire input as a single token with no tokenization.
type KeywordTokenizer struct{}

// NewKeywordTokenizer creates a new KeywordTokenizer.
func NewKeywordTokenizer() *KeywordTokenizer {
	return &KeywordTokenizer{}
}

// TokenStream returns a stream that yields text once, or nothing when text is empty.
func (t *KeywordTokenizer) TokenStream(text string) TokenStream {
	return &keywordStream{text: text, token: Token{Position: -1}}
}

type keywordStream struct {
	text  string
	done  bool
	token Token
}

func (s *keywordStream) Advance() bool {
	s.token.Reset()
	s.token.Position++
	if s.done || s.text == "" {
		s.done = true
		return false
	}
	s.done = true
	s.token.Text = s.text
	s.token.OffsetFrom = 0
	s.token.OffsetTo = len(s.text)
	return true
}

func (s *keywordStream) Token() *Token {
	return &s.token
}
