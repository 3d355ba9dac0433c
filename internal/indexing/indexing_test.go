package indexing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoTokenize/internal/analysis"
)

func testSchema() *Schema {
	return &Schema{
		DefaultTokenizer: analysis.WhitespacePuncName,
		Fields: []FieldDef{
			{Name: "title", Stored: true, Positions: true},
			{Name: "body", Positions: true},
			{Name: "tag", Tokenizer: analysis.KeywordName, Stored: true},
		},
	}
}

func TestWriteBuffer_AllocateDocID(t *testing.T) {
	buf := NewWriteBuffer(0, 0)

	id1, err := buf.AllocateDocID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), id1)

	id2, err := buf.AllocateDocID("doc-2")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id2)

	assert.Equal(t, 2, buf.DocCount())
	id, ok := buf.DocID("doc-2")
	assert.True(t, ok)
	assert.Equal(t, id2, id)
}

func TestWriteBuffer_DuplicateDocID(t *testing.T) {
	buf := NewWriteBuffer(0, 0)

	_, err := buf.AllocateDocID("doc-1")
	require.NoError(t, err)

	_, err = buf.AllocateDocID("doc-1")
	assert.ErrorIs(t, err, ErrDuplicateDoc)
}

func TestWriteBuffer_AddPosting(t *testing.T) {
	buf := NewWriteBuffer(0, 0)
	buf.AddPosting("title", "hello", PostingEntry{DocID: 0, Freq: 1, Positions: []uint32{0}})
	buf.AddPosting("title", "hello", PostingEntry{DocID: 1, Freq: 2, Positions: []uint32{0, 3}})

	entries := buf.Postings("title", "hello")
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(1), entries[1].DocID)
	assert.Equal(t, 1, buf.TermCount())
	assert.Positive(t, buf.MemoryUsed())
	assert.Nil(t, buf.Postings("body", "hello"))
}

func TestWriteBuffer_IsFull(t *testing.T) {
	buf := NewWriteBuffer(0, 2)
	for _, id := range []string{"a", "b"} {
		require.False(t, buf.IsFull())
		_, err := buf.AllocateDocID(id)
		require.NoError(t, err)
	}
	assert.True(t, buf.IsFull())

	buf = NewWriteBuffer(16, 0)
	buf.StoreField(0, "title", "more than sixteen bytes")
	assert.True(t, buf.IsFull())
}

func TestWriteBuffer_MarkDeleted(t *testing.T) {
	buf := NewWriteBuffer(0, 0)
	id, err := buf.AllocateDocID("doc-1")
	require.NoError(t, err)

	assert.True(t, buf.MarkDeleted("doc-1"))
	assert.True(t, buf.IsDeleted(id))
	_, ok := buf.DocID("doc-1")
	assert.False(t, ok)

	// Deleting twice or deleting an unknown ID finds nothing.
	assert.False(t, buf.MarkDeleted("doc-1"))
	assert.False(t, buf.MarkDeleted("missing"))
}

func TestWriteBuffer_Reset(t *testing.T) {
	buf := NewWriteBuffer(0, 1)
	_, _ = buf.AllocateDocID("doc-1")
	buf.AddPosting("title", "x", PostingEntry{DocID: 0, Freq: 1})
	buf.StoreField(0, "title", "x")
	buf.MarkDeleted("doc-1")
	require.True(t, buf.IsFull())

	buf.Reset()

	assert.Zero(t, buf.DocCount())
	assert.Zero(t, buf.TermCount())
	assert.Zero(t, buf.MemoryUsed())
	assert.Nil(t, buf.Postings("title", "x"))
	assert.Nil(t, buf.StoredFields(0))
	assert.False(t, buf.IsDeleted(0))
	// Limits survive a reset.
	_, _ = buf.AllocateDocID("doc-2")
	assert.True(t, buf.IsFull())
}

func TestWriter_AddDocument(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())

	err := w.AddDocument(Document{ID: "doc-1", Fields: map[string]string{
		"title": "Hello, happy tax payer!",
		"tag":   "tax season",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, w.DocCount())

	// Punctuation stays attached to the word.
	assert.Len(t, w.Postings("title", "Hello,"), 1)
	assert.Empty(t, w.Postings("title", "Hello"))

	// The keyword tokenizer keeps the whole value.
	assert.Len(t, w.Postings("tag", "tax season"), 1)

	stored, ok := w.StoredFields("doc-1")
	require.True(t, ok)
	assert.Equal(t, "Hello, happy tax payer!", stored["title"])
}

func TestWriter_AddDocument_PositionsAndOffsets(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	text := "the cat saw the dog"
	require.NoError(t, w.AddDocument(Document{ID: "d", Fields: map[string]string{"body": text}}))

	postings := w.Postings("body", "the")
	require.Len(t, postings, 1)
	e := postings[0]
	assert.Equal(t, uint32(2), e.Freq)
	assert.Equal(t, []uint32{0, 3}, e.Positions)
	require.Len(t, e.Offsets, 2)
	for _, off := range e.Offsets {
		assert.Equal(t, "the", text[off.From:off.To])
	}
}

func TestWriter_AddDocument_NoPositions(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	require.NoError(t, w.AddDocument(Document{ID: "d", Fields: map[string]string{"tag": "x"}}))

	postings := w.Postings("tag", "x")
	require.Len(t, postings, 1)
	assert.Nil(t, postings[0].Positions)
	assert.Equal(t, uint32(1), postings[0].Freq)
}

func TestWriter_AddDocument_MissingID(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	err := w.AddDocument(Document{Fields: map[string]string{"title": "x"}})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestWriter_AddDocument_UnknownField(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	err := w.AddDocument(Document{ID: "d", Fields: map[string]string{"nope": "x"}})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Zero(t, w.DocCount(), "failed document must not allocate an ID")
}

func TestWriter_AddDocument_UnknownTokenizer(t *testing.T) {
	schema := &Schema{Fields: []FieldDef{{Name: "f", Tokenizer: "missing"}}}
	w := NewWriter(schema, analysis.NewRegistry())
	err := w.AddDocument(Document{ID: "d", Fields: map[string]string{"f": "x"}})
	assert.ErrorIs(t, err, analysis.ErrUnknownTokenizer)
}

func TestWriter_AddDocument_DuplicateID(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	doc := Document{ID: "doc-1", Fields: map[string]string{"title": "a"}}

	require.NoError(t, w.AddDocument(doc))
	assert.ErrorIs(t, w.AddDocument(doc), ErrDuplicateDoc)
}

func TestWriter_BufferFull(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDocs = 1
	w := NewWriterWithOptions(testSchema(), analysis.NewRegistry(), opts)

	require.NoError(t, w.AddDocument(Document{ID: "a", Fields: map[string]string{"title": "x"}}))
	assert.True(t, w.IsFull())
	assert.ErrorIs(t, w.AddDocument(Document{ID: "b", Fields: map[string]string{"title": "y"}}), ErrBufferFull)
}

func TestWriter_OnStreamHook(t *testing.T) {
	counts := map[string]int{}
	opts := DefaultOptions()
	opts.OnStream = func(tokenizer string, tokens int) {
		counts[tokenizer] += tokens
	}
	w := NewWriterWithOptions(testSchema(), analysis.NewRegistry(), opts)

	require.NoError(t, w.AddDocument(Document{ID: "a", Fields: map[string]string{
		"title": "one two three",
		"tag":   "k",
	}}))
	assert.Equal(t, 3, counts[analysis.WhitespacePuncName])
	assert.Equal(t, 1, counts[analysis.KeywordName])
}

func TestWriter_DeleteDocument(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	require.NoError(t, w.AddDocuments([]Document{
		{ID: "a", Fields: map[string]string{"title": "shared"}},
		{ID: "b", Fields: map[string]string{"title": "shared"}},
	}))

	found, err := w.DeleteDocument("a")
	require.NoError(t, err)
	assert.True(t, found)

	postings := w.Postings("title", "shared")
	require.Len(t, postings, 1)
	assert.Equal(t, uint32(1), postings[0].DocID)

	_, ok := w.StoredFields("a")
	assert.False(t, ok)

	found, err = w.DeleteDocument("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriter_AddDocuments_WrapsIndex(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	err := w.AddDocuments([]Document{
		{ID: "a", Fields: map[string]string{"title": "x"}},
		{ID: "a", Fields: map[string]string{"title": "y"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateDoc)
	assert.Contains(t, err.Error(), "document 1")
}

func TestWriter_Abort(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	require.NoError(t, w.AddDocument(Document{ID: "a", Fields: map[string]string{"title": "x"}}))

	w.Abort()
	assert.Zero(t, w.DocCount())
	assert.Empty(t, w.Postings("title", "x"))
}

func TestWriter_Release(t *testing.T) {
	w := NewWriter(testSchema(), analysis.NewRegistry())
	w.Release()

	assert.ErrorIs(t, w.AddDocument(Document{ID: "a", Fields: map[string]string{"title": "x"}}), ErrWriterNotActive)
	_, err := w.DeleteDocument("a")
	assert.ErrorIs(t, err, ErrWriterNotActive)
}

func TestSchema_Validate(t *testing.T) {
	reg := analysis.NewRegistry()

	require.NoError(t, testSchema().Validate(reg))
	assert.Error(t, (&Schema{}).Validate(reg))
	assert.Error(t, (&Schema{Fields: []FieldDef{{Name: "a"}, {Name: "a"}}}).Validate(reg))
	assert.ErrorIs(t, (&Schema{Fields: []FieldDef{{Name: "a", Tokenizer: "zzz"}}}).Validate(reg), analysis.ErrUnknownTokenizer)
}
