package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"GoTokenize/internal/analysis"
	"GoTokenize/internal/indexing"
	"GoTokenize/internal/metrics"
)

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.GET("/ready", s.handleReady)
	if s.cfg.Metrics.Enabled {
		r.GET(s.cfg.Metrics.Path, gin.WrapH(metrics.Handler(s.gatherer)))
	}

	// Tokenization.
	r.GET("/tokenizers", s.handleListTokenizers)
	r.POST("/analyze", s.handleAnalyze)

	// Index lifecycle.
	r.GET("/indexes", s.handleListIndexes)
	r.POST("/indexes", s.handleCreateIndex)
	r.GET("/indexes/:name", s.handleGetIndex)
	r.DELETE("/indexes/:name", s.handleDeleteIndex)

	// Documents and term lookup.
	r.POST("/indexes/:name/documents", s.handleIngestDocuments)
	r.GET("/indexes/:name/documents/:id", s.handleGetDocument)
	r.DELETE("/indexes/:name/documents/:id", s.handleDeleteDocument)
	r.GET("/indexes/:name/terms", s.handleTerm)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": "GoTokenize", "version": s.version})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": s.version})
}

func (s *Server) handleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// --- Tokenization ---

func (s *Server) handleListTokenizers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tokenizers": s.registry.Names(),
		"default":    s.cfg.Analysis.DefaultTokenizer,
	})
}

type analyzeRequest struct {
	Tokenizer string `json:"tokenizer"`
	Text      string `json:"text"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	name := req.Tokenizer
	if name == "" {
		name = s.cfg.Analysis.DefaultTokenizer
	}

	tokens, cached, err := s.analyze(name, req.Text)
	if err != nil {
		if errors.Is(err, analysis.ErrUnknownTokenizer) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokenizer": name,
		"tokens":    tokens,
		"cached":    cached,
	})
}

// bindJSON decodes a request body of at most Server.MaxBodyBytes into v.
// On failure it writes the error response and returns false.
func (s *Server) bindJSON(c *gin.Context, v interface{}) bool {
	limit := s.cfg.Server.MaxBodyBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit))
		return false
	}
	writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
	return false
}

// analyze tokenizes text, serving repeated requests from the cache.
func (s *Server) analyze(name, text string) ([]analysis.Token, bool, error) {
	if tokens, ok := s.cache.get(name, text); ok {
		s.metrics.CacheHit()
		return tokens, true, nil
	}

	tok, err := s.registry.Get(name)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.metrics.CacheMiss()
	}

	start := time.Now()
	tokens := make([]analysis.Token, 0)
	n := analysis.Process(tok.TokenStream(text), func(t *analysis.Token) {
		tokens = append(tokens, t.Clone())
	})
	s.metrics.ObserveAnalyze(name, time.Since(start))
	s.metrics.ObserveStream(name, n)

	s.cache.add(name, text, tokens)
	return tokens, false, nil
}

// --- Index Lifecycle ---

func (s *Server) handleListIndexes(c *gin.Context) {
	names := s.mgr.ListIndexes()

	infos := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		inst, err := s.mgr.GetIndex(name)
		if err != nil {
			continue
		}
		infos = append(infos, inst.IndexInfo())
	}

	c.JSON(http.StatusOK, gin.H{"indexes": infos})
}

func (s *Server) handleCreateIndex(c *gin.Context) {
	var req struct {
		Name             string              `json:"name"`
		DefaultTokenizer string              `json:"default_tokenizer"`
		Fields           []indexing.FieldDef `json:"fields"`
	}
	if !s.bindJSON(c, &req) {
		return
	}

	defaultTokenizer := req.DefaultTokenizer
	if defaultTokenizer == "" {
		defaultTokenizer = s.cfg.Analysis.DefaultTokenizer
	}
	schema := &indexing.Schema{
		DefaultTokenizer: defaultTokenizer,
		Fields:           req.Fields,
	}

	if err := s.mgr.CreateIndex(req.Name, schema); err != nil {
		if errors.Is(err, ErrIndexExists) {
			writeError(c, http.StatusConflict, err.Error())
			return
		}
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "created", "name": req.Name})
}

func (s *Server) handleGetIndex(c *gin.Context) {
	inst, ok := s.lookupIndex(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, inst.IndexInfo())
}

func (s *Server) handleDeleteIndex(c *gin.Context) {
	if err := s.mgr.DeleteIndex(c.Param("name")); err != nil {
		if errors.Is(err, ErrIndexNotFound) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "name": c.Param("name")})
}

// --- Documents ---

func (s *Server) handleIngestDocuments(c *gin.Context) {
	inst, ok := s.lookupIndex(c)
	if !ok {
		return
	}

	var req struct {
		Documents []indexing.Document `json:"documents"`
	}
	if !s.bindJSON(c, &req) {
		return
	}
	if len(req.Documents) == 0 {
		writeError(c, http.StatusBadRequest, "no documents provided")
		return
	}

	accepted := 0
	for _, doc := range req.Documents {
		if err := inst.Writer.AddDocument(doc); err != nil {
			s.logger.Warn("document rejected", "index", inst.Name, "id", doc.ID, "error", err)
			c.JSON(documentErrorStatus(err), gin.H{
				"error":    gin.H{"message": err.Error()},
				"accepted": accepted,
			})
			return
		}
		s.metrics.DocumentIndexed()
		accepted++
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             "accepted",
		"documents_received": accepted,
	})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	inst, ok := s.lookupIndex(c)
	if !ok {
		return
	}
	fields, found := inst.Writer.StoredFields(c.Param("id"))
	if !found {
		writeError(c, http.StatusNotFound, "document not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "fields": fields})
}

func (s *Server) handleDeleteDocument(c *gin.Context) {
	inst, ok := s.lookupIndex(c)
	if !ok {
		return
	}
	found, err := inst.Writer.DeleteDocument(c.Param("id"))
	if err != nil {
		writeError(c, documentErrorStatus(err), err.Error())
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "document not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": c.Param("id")})
}

// --- Term lookup ---

func (s *Server) handleTerm(c *gin.Context) {
	inst, ok := s.lookupIndex(c)
	if !ok {
		return
	}
	field, term := c.Query("field"), c.Query("term")
	if field == "" || term == "" {
		writeError(c, http.StatusBadRequest, "field and term query parameters are required")
		return
	}
	if _, ok := inst.Schema.Field(field); !ok {
		writeError(c, http.StatusBadRequest, "unknown field: "+field)
		return
	}

	postings := inst.Writer.Postings(field, term)
	if postings == nil {
		postings = []indexing.PostingEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"field":    field,
		"term":     term,
		"doc_freq": len(postings),
		"postings": postings,
	})
}

func (s *Server) lookupIndex(c *gin.Context) (*IndexInstance, bool) {
	inst, err := s.mgr.GetIndex(c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrIndexNotFound) {
			writeError(c, http.StatusNotFound, err.Error())
			return nil, false
		}
		writeError(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return inst, true
}

func documentErrorStatus(err error) int {
	switch {
	case errors.Is(err, indexing.ErrDuplicateDoc), errors.Is(err, indexing.ErrWriterNotActive):
		return http.StatusConflict
	case errors.Is(err, indexing.ErrBufferFull):
		return http.StatusInsufficientStorage
	default:
		return http.StatusBadRequest
	}
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"message": message,
		},
	})
}
