// internal/api/news.go
package api

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "pe-insights/internal/common/errors"
	storerefresh "pe-insights/internal/maintenance/store-refresh"
	"pe-insights/internal/models"
	collectionsearch "pe-insights/internal/queries/search/collection-search"
	"pe-insights/internal/store"
)

func (s *Server) handleListNews(c echo.Context) error {
	news := s.deps.State.Snapshot().News
	return success(c, echo.Map{
		"count": len(news),
		"news":  nonNil(news),
	})
}

// handleSearchNews answers {results} alone for an empty query, matching
// the listing the page falls back to.
func (s *Server) handleSearchNews(c echo.Context) error {
	return s.searchWithFallback(c, store.News)
}

func (s *Server) searchWithFallback(c echo.Context, collection store.Collection) error {
	q := c.QueryParam("q")
	out, err := s.deps.Search.Execute(c.Request().Context(), &collectionsearch.Input{
		Collection: collection,
		Query:      q,
	})
	if err != nil {
		return err
	}
	if out.Query == "" {
		return success(c, echo.Map{"results": out.Results})
	}
	return success(c, echo.Map{
		"query":   out.Query,
		"count":   out.Count,
		"results": out.Results,
	})
}

// handleDeleteNews removes an article from the in-memory list only. The
// next reload of the news file brings it back.
func (s *Server) handleDeleteNews(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return apperrors.NewRecordNotFoundError("Article not found", "index: "+c.Param("index"))
	}

	var deleted models.NewsArticle
	_, err = s.deps.State.Update(c.Request().Context(), store.News, func(next *store.Snapshot) error {
		if index < 0 || index >= len(next.News) {
			return apperrors.NewRecordNotFoundError("Article not found", fmt.Sprintf("index: %d", index))
		}
		deleted = next.News[index]
		news := make([]models.NewsArticle, 0, len(next.News)-1)
		news = append(news, next.News[:index]...)
		next.News = append(news, next.News[index+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	return success(c, echo.Map{
		"message": "Article deleted successfully",
		"deleted": deleted,
	})
}

func (s *Server) handleScrapeNews(c echo.Context) error {
	out, err := s.deps.Refresh.Execute(c.Request().Context(), storerefresh.TargetNews)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"message":     fmt.Sprintf("Successfully scraped %d articles", out.NewCount()),
		"new_count":   out.NewCount(),
		"total_count": out.After,
	})
}

func (s *Server) handleUpdateFirmNews(c echo.Context) error {
	out, err := s.deps.Refresh.Execute(c.Request().Context(), storerefresh.TargetFirmNews)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"message":        "Real news updated successfully!",
		"output":         out.Output,
		"total_articles": out.After,
	})
}

func (s *Server) handleFirmNews(c echo.Context) error {
	snap := s.deps.State.Snapshot()
	if !snap.Loaded(store.FirmNews) {
		return apperrors.NewRecordNotFoundError("PE news database not found", "")
	}
	feed := snap.FirmNews
	return success(c, echo.Map{
		"count":        feed.TotalNews,
		"news":         nonNil(feed.News),
		"last_updated": feed.LastUpdated,
		"source":       feed.Source,
	})
}

// handleFullText queries the Elasticsearch mirror of both news stores.
func (s *Server) handleFullText(c echo.Context) error {
	size := 0
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewInvalidQueryError("size must be an integer")
		}
		size = n
	}

	res, err := s.deps.Index.Search(c.Request().Context(), c.QueryParam("q"), size)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"query":   res.Query,
		"count":   len(res.Hits),
		"total":   res.Total,
		"results": nonNil(res.Hits),
	})
}
