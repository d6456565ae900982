// internal/maintenance/news-dedupe/handler.go
package newsdedupe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/store"
	"pe-insights/pkg/datafile"
)

const TaskName = "news-dedupe"

var ErrUnsupportedCollection = errors.New("UNSUPPORTED_COLLECTION")

type Handler struct {
	config *Config
	state  *store.State
	logger logger.Logger
}

// NewHandler builds the handler. state may be nil; when set, the collection
// is reloaded after the file is rewritten.
func NewHandler(config *Config, state *store.State, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		state:  state,
		logger: log.WithFields(map[string]interface{}{"task": TaskName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidQueryError("input cannot be nil")
	}
	field, ok := listField[input.Collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCollection, input.Collection)
	}

	path := store.FileFor(h.config.Stores, input.Collection)
	doc, err := datafile.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewStoreNotFoundError(string(input.Collection), path)
		}
		return nil, apperrors.NewStoreMalformedError(string(input.Collection), err)
	}

	var articles []json.RawMessage
	if _, err := doc.Decode(field, &articles); err != nil {
		return nil, apperrors.NewStoreMalformedError(string(input.Collection), err)
	}

	kept, removed := dedupe(articles, input.ByTitle)
	out := &Output{
		Collection: input.Collection,
		Path:       path,
		Before:     len(articles),
		After:      len(kept),
		Removed:    removed,
	}
	for _, r := range removed {
		h.logger.Debug("duplicate article", map[string]interface{}{
			"collection": string(input.Collection),
			"index":      r.Index,
			"title":      r.Title,
			"reason":     r.Reason,
		})
	}

	if len(removed) == 0 || input.DryRun {
		return out, nil
	}

	if err := doc.Set(field, kept); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if input.Collection == store.FirmNews || doc.Has("total_news") {
		if err := doc.Set("total_news", len(kept)); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	if err := datafile.Save(path, doc); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("save %s: %w", path, err))
	}
	out.Written = true

	h.logger.Info("duplicates removed", map[string]interface{}{
		"collection": string(input.Collection),
		"before":     out.Before,
		"after":      out.After,
	})

	if h.state != nil {
		if _, _, err := h.state.Reload(ctx, input.Collection); err != nil {
			return out, err
		}
	}
	return out, nil
}

type articleKey struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// dedupe keeps the first article for every link, and for every lower-cased
// title when byTitle is set. Articles without a link never collide on link.
func dedupe(articles []json.RawMessage, byTitle bool) ([]json.RawMessage, []Removal) {
	kept := make([]json.RawMessage, 0, len(articles))
	removed := make([]Removal, 0)
	links := make(map[string]bool)
	titles := make(map[string]bool)

	for i, raw := range articles {
		var key articleKey
		// records that are not objects are kept untouched
		_ = json.Unmarshal(raw, &key)
		title := strings.ToLower(key.Title)

		switch {
		case key.Link != "" && links[key.Link]:
			removed = append(removed, Removal{Index: i, Title: key.Title, Link: key.Link, Reason: ReasonLink})
			continue
		case byTitle && title != "" && titles[title]:
			removed = append(removed, Removal{Index: i, Title: key.Title, Link: key.Link, Reason: ReasonTitle})
			continue
		}

		if key.Link != "" {
			links[key.Link] = true
		}
		if title != "" {
			titles[title] = true
		}
		kept = append(kept, raw)
	}
	return kept, removed
}
