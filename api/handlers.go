package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seo-optimizer/scorer/analyzer"
	"github.com/seo-optimizer/scorer/content"
	"github.com/seo-optimizer/scorer/extract"
	"github.com/seo-optimizer/scorer/metrics"
	"github.com/seo-optimizer/scorer/middleware"
	"github.com/seo-optimizer/scorer/stats"
)

type scoreRequest struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
	// HTML marks content as markup to extract text and headings from
	HTML bool `json:"html"`
}

type batchRequest struct {
	Documents []scoreRequest `json:"documents" binding:"required"`
}

type batchResponse struct {
	Results []content.Result `json:"results"`
}

type analyzeRequest struct {
	URL      string   `json:"url" binding:"required,url"`
	Keywords []string `json:"keywords"`
}

type suggestRequest struct {
	Content string `json:"content"`
	HTML    bool   `json:"html"`
	Limit   int    `json:"limit"`
}

type suggestResponse struct {
	Terms []content.TermCount `json:"terms"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.profile)
}

// statistics reports traffic and usage counters. Popular URLs and cache
// details are only exposed in development mode.
func (s *Server) statistics(c *gin.Context) {
	snapshot := s.traffic.Snapshot(s.devMode)

	current := s.storage.GetCurrentStats()
	snapshot["scoresComputed"] = current.ScoresComputed
	snapshot["pageAnalyses"] = current.PageAnalyses
	if s.devMode {
		snapshot["cache"] = s.analyzer.GetCacheStats()
		snapshot["months"] = s.storage.GetAllMonths()
	}

	c.JSON(http.StatusOK, snapshot)
}

// document turns a score request into a scoring input
func document(req scoreRequest) content.Document {
	if req.HTML {
		page := extract.FromHTML(req.Content)
		return content.Document{
			Content:  page.Text,
			Keywords: req.Keywords,
			Headings: page.HeadingCount,
		}
	}
	return content.NewDocument(req.Content, req.Keywords)
}

func (s *Server) scoreDocument(req scoreRequest) content.Result {
	result := s.profile.Score(document(req))
	metrics.RecordScore(string(result.Readability.Grade), result.SEOScore)
	return result
}

func (s *Server) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := s.scoreDocument(req)
	s.storage.Record(stats.Delta{ScoresComputed: 1})

	c.JSON(http.StatusOK, result)
}

// scoreBatch scores documents in parallel, keeping the request order
func (s *Server) scoreBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Documents) > maxBatchSize {
		abortWithError(c, http.StatusBadRequest, "Too many documents in batch")
		return
	}

	results := make([]content.Result, len(req.Documents))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(batchParallel)

	for i, doc := range req.Documents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.scoreDocument(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Info("batch scoring canceled", zap.Error(err))
		abortWithError(c, http.StatusServiceUnavailable, "Request canceled")
		return
	}

	s.storage.Record(stats.Delta{ScoresComputed: len(results)})
	c.JSON(http.StatusOK, batchResponse{Results: results})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid URL provided")
		return
	}
	c.Set(middleware.TargetURLKey, req.URL)

	analysis, err := s.analyzer.Analyze(c.Request.Context(), req.URL, req.Keywords)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrInvalidURL):
			abortWithError(c, http.StatusBadRequest, "Invalid URL provided")
		case errors.Is(err, analyzer.ErrFetch), errors.Is(err, analyzer.ErrNotHTML):
			abortWithError(c, http.StatusBadGateway, "Failed to analyze URL: "+err.Error())
		case errors.Is(err, context.Canceled):
			abortWithError(c, http.StatusServiceUnavailable, "Request canceled")
		default:
			s.logger.Error("page analysis failed", zap.String("url", req.URL), zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Failed to analyze URL")
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (s *Server) suggestKeywords(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		abortWithError(c, http.StatusBadRequest, "Content is required")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTerms
	}
	limit = min(limit, maxTerms)

	text := req.Content
	if req.HTML {
		text = extract.Text(text)
	}

	terms := content.TopTerms(text, limit)
	if terms == nil {
		terms = []content.TermCount{}
	}
	c.JSON(http.StatusOK, suggestResponse{Terms: terms})
}
