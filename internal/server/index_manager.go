package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"GoTokenize/internal/analysis"
	"GoTokenize/internal/indexing"
)

var (
	ErrIndexNotFound = errors.New("index not found")
	ErrIndexExists   = errors.New("index already exists")
)

// IndexInstance holds all runtime state for a single in-memory index.
type IndexInstance struct {
	Name   string
	Schema *indexing.Schema
	Writer *indexing.Writer
}

// IndexInfo returns a JSON-friendly summary of the index.
func (inst *IndexInstance) IndexInfo() map[string]interface{} {
	docs, terms, memory := inst.Writer.Stats()
	return map[string]interface{}{
		"name":              inst.Name,
		"default_tokenizer": inst.Schema.DefaultTokenizer,
		"fields":            inst.Schema.Fields,
		"doc_count":         docs,
		"term_count":        terms,
		"memory_bytes":      memory,
	}
}

// IndexManager manages multiple indexes within a single process.
type IndexManager struct {
	registry *analysis.Registry
	opts     indexing.Options
	logger   *slog.Logger

	mu      sync.RWMutex
	indexes map[string]*IndexInstance
}

// NewIndexManager creates an IndexManager whose writers share registry and opts.
func NewIndexManager(registry *analysis.Registry, opts indexing.Options, logger *slog.Logger) *IndexManager {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &IndexManager{
		registry: registry,
		opts:     opts,
		logger:   logger,
		indexes:  make(map[string]*IndexInstance),
	}
}

// CreateIndex validates schema and creates an empty index.
func (m *IndexManager) CreateIndex(name string, schema *indexing.Schema) error {
	if name == "" {
		return errors.New("index name is required")
	}
	if err := schema.Validate(m.registry); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.indexes[name]; exists {
		return fmt.Errorf("%w: %q", ErrIndexExists, name)
	}
	m.indexes[name] = &IndexInstance{
		Name:   name,
		Schema: schema,
		Writer: indexing.NewWriterWithOptions(schema, m.registry, m.opts),
	}
	m.logger.Info("index created", "name", name, "fields", len(schema.Fields))
	return nil
}

// GetIndex returns the named index.
func (m *IndexManager) GetIndex(name string) (*IndexInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.indexes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrIndexNotFound, name)
	}
	return inst, nil
}

// DeleteIndex releases the index writer and forgets the index.
func (m *IndexManager) DeleteIndex(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.indexes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrIndexNotFound, name)
	}
	inst.Writer.Release()
	delete(m.indexes, name)
	m.logger.Info("index deleted", "name", name)
	return nil
}

// ListIndexes returns the index names in sorted order.
func (m *IndexManager) ListIndexes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.indexes))
	for name := range m.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
