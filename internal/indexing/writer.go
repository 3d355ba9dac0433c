package indexing

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"GoTokenize/internal/analysis"
)

var (
	ErrBufferFull      = errors.New("write buffer memory limit reached")
	ErrDuplicateDoc    = errors.New("duplicate document ID in buffer")
	ErrUnknownField    = errors.New("unknown field in document")
	ErrWriterNotActive = errors.New("writer is not active")
	ErrMissingID       = errors.New("document missing id")
)

// Document is a flat set of text fields identified by ID.
type Document struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Writer is the exclusive writer for a single in-memory index.
// It drives a token stream for every field and records the emitted tokens
// as postings.
type Writer struct {
	schema   *Schema
	registry *analysis.Registry
	buffer   *WriteBuffer
	onStream StreamHook
	logger   *slog.Logger

	mu     sync.Mutex
	active bool
}

// NewWriter creates a new Writer for the given schema and tokenizer registry.
func NewWriter(schema *Schema, registry *analysis.Registry) *Writer {
	return NewWriterWithOptions(schema, registry, DefaultOptions())
}

// NewWriterWithOptions creates a Writer with explicit options.
func NewWriterWithOptions(schema *Schema, registry *analysis.Registry, opts Options) *Writer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		schema:   schema,
		registry: registry,
		buffer:   NewWriteBuffer(opts.MemoryLimit, opts.MaxDocs),
		onStream: opts.OnStream,
		logger:   logger,
		active:   true,
	}
}

// AddDocument validates and indexes a single document into the write buffer.
// A document that fails validation leaves the buffer untouched.
func (w *Writer) AddDocument(doc Document) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return ErrWriterNotActive
	}
	if doc.ID == "" {
		return ErrMissingID
	}
	if w.buffer.IsFull() {
		return ErrBufferFull
	}

	// Resolve every field before touching the buffer.
	type pending struct {
		def       FieldDef
		name      string
		tokenizer analysis.Tokenizer
		text      string
	}
	fields := make([]pending, 0, len(doc.Fields))
	for name, text := range doc.Fields {
		def, ok := w.schema.Field(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		tokName := w.schema.TokenizerFor(def)
		tok, err := w.registry.Get(tokName)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		fields = append(fields, pending{def: def, name: tokName, tokenizer: tok, text: text})
	}

	docID, err := w.buffer.AllocateDocID(doc.ID)
	if err != nil {
		return err
	}

	for _, f := range fields {
		n := w.indexField(f.def, docID, f.tokenizer, f.text)
		if w.onStream != nil {
			w.onStream(f.name, n)
		}
		if f.def.Stored {
			w.buffer.StoreField(docID, f.def.Name, f.text)
		}
	}

	w.logger.Debug("document indexed", "id", doc.ID, "doc_id", docID, "fields", len(fields))
	return nil
}

// AddDocuments validates and indexes multiple documents into the write buffer.
func (w *Writer) AddDocuments(docs []Document) error {
	for i, doc := range docs {
		if err := w.AddDocument(doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}
	return nil
}

// DeleteDocument marks a document as deleted by external ID.
// It reports whether the document was known.
func (w *Writer) DeleteDocument(externalID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return false, ErrWriterNotActive
	}

	return w.buffer.MarkDeleted(externalID), nil
}

// Postings returns a copy of the postings for term in field, skipping
// deleted documents.
func (w *Writer) Postings(field, term string) []PostingEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.buffer.Postings(field, term)
	if entries == nil {
		return nil
	}
	out := make([]PostingEntry, 0, len(entries))
	for _, e := range entries {
		if w.buffer.IsDeleted(e.DocID) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// StoredFields returns the stored values of the document with the given
// external ID.
func (w *Writer) StoredFields(externalID string) (map[string]string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	docID, ok := w.buffer.DocID(externalID)
	if !ok {
		return nil, false
	}
	stored := w.buffer.StoredFields(docID)
	out := make(map[string]string, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, true
}

// DocCount returns the number of documents currently in the write buffer.
func (w *Writer) DocCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.DocCount()
}

// Stats returns the document count, term count and approximate memory use
// of the buffer.
func (w *Writer) Stats() (docs, terms int, memory int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.DocCount(), w.buffer.TermCount(), w.buffer.MemoryUsed()
}

// IsFull returns true if the write buffer has reached its memory or document limit.
func (w *Writer) IsFull() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.IsFull()
}

// Schema returns the writer's schema.
func (w *Writer) Schema() *Schema {
	return w.schema
}

// Abort discards all buffered changes.
func (w *Writer) Abort() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer.Reset()
}

// Release deactivates the writer.
func (w *Writer) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = false
}

// indexField consumes one token stream and returns the number of tokens.
func (w *Writer) indexField(def FieldDef, docID uint32, tok analysis.Tokenizer, text string) int {
	// Build term frequencies, positions and offsets. Terms keep the order
	// in which they first appear.
	var order []string
	entries := make(map[string]*PostingEntry)
	n := analysis.Process(tok.TokenStream(text), func(t *analysis.Token) {
		e, ok := entries[t.Text]
		if !ok {
			e = &PostingEntry{DocID: docID}
			entries[t.Text] = e
			order = append(order, t.Text)
		}
		e.Freq++
		if def.Positions {
			e.Positions = append(e.Positions, uint32(t.Position))
			e.Offsets = append(e.Offsets, Offset{From: t.OffsetFrom, To: t.OffsetTo})
		}
	})

	for _, term := range order {
		w.buffer.AddPosting(def.Name, term, *entries[term])
	}
	return n
}
