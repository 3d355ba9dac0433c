package analysis

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Built-in tokenizer names.
const (
	WhitespacePuncName = "whitespace_punc"
	KeywordName        = "keyword"
	DefaultName        = "default"
)

var (
	ErrUnknownTokenizer = errors.New("unknown tokenizer")
	ErrTokenizerExists  = errors.New("tokenizer already registered")
	ErrInvalidName      = errors.New("tokenizer name must not be empty")
	ErrInvalidTokenizer = errors.New("tokenizer must not be nil")
)

// Registry manages tokenizer instances by name.
// Tokenizers are stateless, so a single instance is shared by all callers.
type Registry struct {
	tokenizers map[string]Tokenizer
	mu         sync.RWMutex
}

// NewRegistry creates a Registry with the built-in tokenizers registered.
func NewRegistry() *Registry {
	wp := NewWhitespacePuncTokenizer()
	r := &Registry{
		tokenizers: make(map[string]Tokenizer),
	}
	r.tokenizers[WhitespacePuncName] = wp
	r.tokenizers[DefaultName] = wp
	r.tokenizers[KeywordName] = NewKeywordTokenizer()
	return r
}

// Get returns the tokenizer registered under the given name.
func (r *Registry) Get(name string) (Tokenizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokenizers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTokenizer, name)
	}
	return t, nil
}

// Register adds a custom tokenizer to the registry.
func (r *Registry) Register(name string, t Tokenizer) error {
	if name == "" {
		return ErrInvalidName
	}
	if t == nil {
		return fmt.Errorf("%w: %q", ErrInvalidTokenizer, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tokenizers[name]; exists {
		return fmt.Errorf("%w: %q", ErrTokenizerExists, name)
	}
	r.tokenizers[name] = t
	return nil
}

// Names returns the names of all registered tokenizers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tokenizers))
	for name := range r.tokenizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
