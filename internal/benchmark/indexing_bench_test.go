package benchmark

import (
	"fmt"
	"testing"

	"GoTokenize/internal/analysis"
	"GoTokenize/internal/indexing"
	"GoTokenize/internal/testutil"
)

const longBody = "Full-text search is a technique for searching documents stored in a database. " +
	"It involves indexing the content of documents and building inverted indexes that map " +
	"terms to the documents containing them. Modern search engines use sophisticated ranking " +
	"algorithms like BM25 to estimate the relevance of documents to a given query. " +
	"The query processing pipeline includes parsing, analysis, rewriting, planning, and execution. " +
	"Boolean queries combine multiple terms using AND, OR, and NOT operators. " +
	"Phrase queries require position information to verify that terms appear in sequence."

func smallDoc(i int) indexing.Document {
	return indexing.Document{ID: fmt.Sprintf("doc-%d", i), Fields: map[string]string{
		"title": "Introduction to Search Engines",
		"body":  "Full-text search is a technique for searching documents.",
		"tags":  "tutorial",
	}}
}

func largeDoc(i int) indexing.Document {
	return indexing.Document{ID: fmt.Sprintf("doc-%d", i), Fields: map[string]string{
		"title": "Comprehensive Guide to Building Search Engines from Scratch",
		"body":  longBody,
		"tags":  "advanced",
	}}
}

func BenchmarkIndexing_SmallDocs(b *testing.B) {
	schema := testutil.BasicSchema()
	registry := analysis.NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := indexing.NewWriter(schema, registry)
		for j := 0; j < 100; j++ {
			_ = w.AddDocument(smallDoc(j))
		}
	}
}

func BenchmarkIndexing_LargeDocs(b *testing.B) {
	schema := testutil.BasicSchema()
	registry := analysis.NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := indexing.NewWriter(schema, registry)
		for j := 0; j < 100; j++ {
			_ = w.AddDocument(largeDoc(j))
		}
	}
}

func BenchmarkIndexing_SingleDoc(b *testing.B) {
	w := indexing.NewWriter(testutil.BasicSchema(), analysis.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if w.IsFull() {
			w.Abort()
		}
		_ = w.AddDocument(indexing.Document{ID: fmt.Sprintf("doc-%d", i), Fields: map[string]string{
			"title": "Quick brown fox jumps over the lazy dog",
			"body":  "The five boxing wizards jump quickly at dawn.",
		}})
	}
}
