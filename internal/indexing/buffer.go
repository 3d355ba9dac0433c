package indexing

// Default limits of a WriteBuffer.
const (
	DefaultMemoryLimit = 64 * 1024 * 1024
	DefaultMaxDocs     = 100_000
)

// Offset is a [From, To) byte range of one occurrence of a term.
type Offset struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// PostingEntry records the occurrences of one term in one document.
// Positions and Offsets are parallel and only filled for fields that keep
// positions.
type PostingEntry struct {
	DocID     uint32   `json:"doc_id"`
	Freq      uint32   `json:"freq"`
	Positions []uint32 `json:"positions,omitempty"`
	Offsets   []Offset `json:"offsets,omitempty"`
}

// WriteBuffer is an in-memory inverted index: field → term → postings in
// doc ID order. Doc IDs are dense and assigned in arrival order.
//
// WriteBuffer does no locking. Writer serializes all access to it.
type WriteBuffer struct {
	postings map[string]map[string][]PostingEntry
	stored   map[uint32]map[string]string
	docIDs   map[string]uint32
	deleted  map[uint32]struct{}

	nextID uint32
	terms  int
	memory int64

	memoryLimit int64
	maxDocs     int
}

// NewWriteBuffer returns an empty buffer. Non-positive limits fall back to
// DefaultMemoryLimit and DefaultMaxDocs.
func NewWriteBuffer(memoryLimit int64, maxDocs int) *WriteBuffer {
	if memoryLimit <= 0 {
		memoryLimit = DefaultMemoryLimit
	}
	if maxDocs <= 0 {
		maxDocs = DefaultMaxDocs
	}
	b := &WriteBuffer{memoryLimit: memoryLimit, maxDocs: maxDocs}
	b.Reset()
	return b
}

// AllocateDocID assigns the next doc ID to externalID.
func (b *WriteBuffer) AllocateDocID(externalID string) (uint32, error) {
	if _, ok := b.docIDs[externalID]; ok {
		return 0, ErrDuplicateDoc
	}
	id := b.nextID
	b.nextID++
	b.docIDs[externalID] = id
	b.memory += int64(len(externalID)) + 4
	return id, nil
}

// DocID returns the doc ID of a live document.
func (b *WriteBuffer) DocID(externalID string) (uint32, bool) {
	id, ok := b.docIDs[externalID]
	if !ok || b.IsDeleted(id) {
		return 0, false
	}
	return id, true
}

// AddPosting appends entry to the postings of term in field. Entries must
// arrive in doc ID order.
func (b *WriteBuffer) AddPosting(field, term string, entry PostingEntry) {
	terms, ok := b.postings[field]
	if !ok {
		terms = make(map[string][]PostingEntry)
		b.postings[field] = terms
	}
	if _, ok := terms[term]; !ok {
		b.terms++
		b.memory += int64(len(field) + len(term))
	}
	terms[term] = append(terms[term], entry)
	b.memory += int64(8 + 4*len(entry.Positions) + 16*len(entry.Offsets))
}

// Postings returns the postings of term in field, deleted documents included.
// The slice is owned by the buffer.
func (b *WriteBuffer) Postings(field, term string) []PostingEntry {
	return b.postings[field][term]
}

// StoreField keeps the original value of a stored field.
func (b *WriteBuffer) StoreField(docID uint32, field, value string) {
	fields, ok := b.stored[docID]
	if !ok {
		fields = make(map[string]string)
		b.stored[docID] = fields
	}
	fields[field] = value
	b.memory += int64(len(field) + len(value))
}

// StoredFields returns the stored values of docID. The map is owned by the
// buffer.
func (b *WriteBuffer) StoredFields(docID uint32) map[string]string {
	return b.stored[docID]
}

// MarkDeleted hides a document from lookups. It reports whether externalID
// names a live document.
func (b *WriteBuffer) MarkDeleted(externalID string) bool {
	id, ok := b.DocID(externalID)
	if !ok {
		return false
	}
	b.deleted[id] = struct{}{}
	return true
}

// IsDeleted reports whether docID was marked deleted.
func (b *WriteBuffer) IsDeleted(docID uint32) bool {
	_, ok := b.deleted[docID]
	return ok
}

// DocCount is the number of doc IDs handed out, deleted documents included.
func (b *WriteBuffer) DocCount() int { return int(b.nextID) }

// TermCount is the number of distinct (field, term) pairs.
func (b *WriteBuffer) TermCount() int { return b.terms }

// MemoryUsed is a rough estimate of the bytes held by the buffer.
func (b *WriteBuffer) MemoryUsed() int64 { return b.memory }

// IsFull reports whether the document or memory limit has been reached.
func (b *WriteBuffer) IsFull() bool {
	return b.DocCount() >= b.maxDocs || b.memory >= b.memoryLimit
}

// Reset drops all documents and keeps the limits.
func (b *WriteBuffer) Reset() {
	b.postings = make(map[string]map[string][]PostingEntry)
	b.stored = make(map[uint32]map[string]string)
	b.docIDs = make(map[string]uint32)
	b.deleted = make(map[uint32]struct{})
	b.nextID = 0
	b.terms = 0
	b.memory = 0
}
