package testutil

import (
	"testing"

	"GoTokenize/internal/analysis"
	"GoTokenize/internal/indexing"
)

// BasicSchema returns a schema suitable for most tests.
func BasicSchema() *indexing.Schema {
	return &indexing.Schema{
		DefaultTokenizer: analysis.WhitespacePuncName,
		Fields: []indexing.FieldDef{
			{Name: "title", Stored: true, Positions: true},
			{Name: "body", Positions: true},
			{Name: "tags", Tokenizer: analysis.KeywordName, Stored: true},
		},
	}
}

// SampleDocuments returns a small set of test documents.
func SampleDocuments() []indexing.Document {
	return []indexing.Document{
		{ID: "doc-1", Fields: map[string]string{
			"title": "Introduction to Search Engines",
			"body":  "Full-text search is a technique for searching documents",
			"tags":  "tutorial",
		}},
		{ID: "doc-2", Fields: map[string]string{
			"title": "Advanced Query Processing",
			"body":  "Boolean queries combine multiple search terms using AND, OR operators",
			"tags":  "advanced",
		}},
		{ID: "doc-3", Fields: map[string]string{
			"title": "Building an Inverted Index",
			"body":  "An inverted index maps terms to the documents containing them",
			"tags":  "tutorial",
		}},
		{ID: "doc-4", Fields: map[string]string{
			"title": "Hello, happy tax payer!",
			"body":  "Punctuation stays attached: commas, periods. and bangs!",
			"tags":  "punctuation",
		}},
		{ID: "doc-5", Fields: map[string]string{
			"title": "Unicode   naïve\tcafé",
			"body":  "\n\tleading whitespace and trailing \r\n",
			"tags":  "unicode",
		}},
	}
}

// IngestDocuments indexes a set of documents into a writer.
func IngestDocuments(t testing.TB, w *indexing.Writer, docs []indexing.Document) {
	t.Helper()
	for _, doc := range docs {
		if err := w.AddDocument(doc); err != nil {
			t.Fatalf("AddDocument(%v): %v", doc.ID, err)
		}
	}
}

// CreatePopulatedWriter creates a writer with sample documents already ingested.
func CreatePopulatedWriter(t testing.TB) *indexing.Writer {
	t.Helper()
	w := indexing.NewWriter(BasicSchema(), analysis.NewRegistry())
	IngestDocuments(t, w, SampleDocuments())
	return w
}

// AssertTokensMatchSource fails t if any token's text differs from the
// source slice its offsets describe, or if positions are not 0, 1, 2, ...
func AssertTokensMatchSource(t testing.TB, source string, tokens []analysis.Token) {
	t.Helper()
	for i, tok := range tokens {
		if tok.Position != i {
			t.Errorf("token %d position = %d", i, tok.Position)
		}
		if tok.OffsetFrom < 0 || tok.OffsetFrom >= tok.OffsetTo || tok.OffsetTo > len(source) {
			t.Errorf("token %d has invalid offsets [%d, %d) for length %d", i, tok.OffsetFrom, tok.OffsetTo, len(source))
			continue
		}
		if got := source[tok.OffsetFrom:tok.OffsetTo]; got != tok.Text {
			t.Errorf("token %d text %q, source slice %q", i, tok.Text, got)
		}
	}
}
