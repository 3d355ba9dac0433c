package server

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"GoTokenize/internal/analysis"
)

type cacheKey struct {
	tokenizer string
	text      string
}

// analyzeCache memoizes analyze results per tokenizer and text.
// A nil *analyzeCache never hits.
type analyzeCache struct {
	lru *lru.Cache[cacheKey, []analysis.Token]
}

func newAnalyzeCache(size int) (*analyzeCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[cacheKey, []analysis.Token](size)
	if err != nil {
		return nil, err
	}
	return &analyzeCache{lru: c}, nil
}

func (c *analyzeCache) get(tokenizer, text string) ([]analysis.Token, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(cacheKey{tokenizer: tokenizer, text: text})
}

func (c *analyzeCache) add(tokenizer, text string, tokens []analysis.Token) {
	if c == nil {
		return
	}
	c.lru.Add(cacheKey{tokenizer: tokenizer, text: text}, tokens)
}

func (c *analyzeCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
