// Package api serves catalogue searches over http.
package api

import (
	"context"
	"errors"
	"net/http"

	"worksearch/internal/catalogue"
	"worksearch/internal/components/assert"
	"worksearch/internal/components/telemetry"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

const (
	report_api_search = "api.search"
)

// OutcomeHeader carries the outcome of a search, it tells an empty results page
// apart from a page that could not be read.
const OutcomeHeader = "X-Worksearch-Outcome"

type Searcher interface {
	Search(ctx context.Context, query catalogue.SearchQuery) (catalogue.SearchResult, error)
}

type Options struct {
	// Sentry installs the sentry middleware, sentry must already be initialized.
	Sentry bool
}

type handler struct {
	searcher Searcher
	tel      telemetry.API
}

func NewRouter(searcher Searcher, tel telemetry.API, opts Options) *gin.Engine {
	assert.NotNil(searcher)
	assert.NotNil(tel)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.Sentry {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	h := handler{
		searcher: searcher,
		tel:      telemetry.NewScopedAPI("api", tel),
	}
	router.GET("/healthz", h.healthz)
	router.GET("/search", h.search)

	return router
}

func (h handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h handler) search(c *gin.Context) {
	query := catalogue.SearchQuery{
		Title:     c.Query("title"),
		Writer:    c.Query("writer"),
		Performer: c.Query("performer"),
	}

	result, err := h.searcher.Search(c.Request.Context(), query)
	if errors.Is(err, catalogue.ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.tel.ReportWarning(report_api_search, err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		status := http.StatusInternalServerError
		if errors.Is(err, catalogue.ErrTransport) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header(OutcomeHeader, result.Outcome.String())
	c.JSON(http.StatusOK, result)
}
