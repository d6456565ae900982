// internal/store/loader.go
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/validation"
	"pe-insights/internal/models"
	"pe-insights/pkg/datafile"
)

// Outcome reports how loading one collection went.
type Outcome struct {
	Collection Collection `json:"collection"`
	Path       string     `json:"path"`
	Status     string     `json:"status"`
	Records    int        `json:"records"`
	Dropped    int        `json:"dropped"`
	Err        error      `json:"-"`
}

// OK reports whether the collection was read.
func (o Outcome) OK() bool {
	return o.Status == OutcomeLoaded || o.Status == OutcomeUpdated
}

var legacyPortfolioSchema = validation.MustCompile(validation.DocumentSpec{
	Field: "pe_firms",
	Kind:  validation.KindMap,
})

// loadCollection reads c into next. When it fails, next is not touched for
// that collection.
func (st *State) loadCollection(c Collection, next *Snapshot, allowLegacy bool) Outcome {
	path := FileFor(st.stores, c)
	out := Outcome{Collection: c, Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if c == Portfolio && allowLegacy {
				if legacy, ok := st.loadLegacyPortfolio(next); ok {
					return legacy
				}
			}
			out.Status = OutcomeNotFound
			out.Err = apperrors.NewStoreNotFoundError(string(c), path)
			return out
		}
		out.Status = OutcomeMalformed
		out.Err = apperrors.NewStoreMalformedError(string(c), err)
		return out
	}

	doc, err := parseValidated(collectionSpecs[c].schema, data)
	if err != nil {
		out.Status = OutcomeMalformed
		out.Err = apperrors.NewStoreMalformedError(string(c), err)
		return out
	}

	dropped, err := st.apply(c, doc, next)
	if err != nil {
		out.Status = OutcomeMalformed
		out.Err = apperrors.NewStoreMalformedError(string(c), err)
		return out
	}
	for _, d := range dropped {
		st.logger.Warn("record skipped", map[string]interface{}{
			"collection": string(c),
			"error":      d.Error(),
		})
	}

	next.Documents[c] = doc
	out.Status = OutcomeLoaded
	out.Records = next.Count(c)
	out.Dropped = len(dropped)
	return out
}

func parseValidated(schema *validation.Schema, data []byte) (datafile.Document, error) {
	result, err := schema.ValidateBytes(data)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return datafile.Parse(data)
}

// apply decodes doc into the typed fields of next. Records that fail to
// decode are dropped and returned as errors; the collection still loads.
func (st *State) apply(c Collection, doc datafile.Document, next *Snapshot) ([]error, error) {
	switch c {
	case Firms:
		firms, dropped, err := decodeMap[models.Firm](doc, "pe_firms")
		if err != nil {
			return nil, err
		}
		next.Firms = firms
		next.firmIndex = models.NewFirmIndex(next.FirmNames())
		return dropped, nil
	case Portfolio:
		list, dropped, err := decodeList[models.PortfolioCompany](doc, "companies")
		if err != nil {
			return nil, err
		}
		next.Portfolio = list
		return dropped, nil
	case News:
		list, dropped, err := decodeList[models.NewsArticle](doc, "articles")
		if err != nil {
			return nil, err
		}
		next.News = list
		return dropped, nil
	case FirmNews:
		list, dropped, err := decodeList[models.NewsArticle](doc, "news")
		if err != nil {
			return nil, err
		}
		feed := FirmNewsFeed{
			News:        list,
			LastUpdated: doc.String("last_updated", ""),
			Source:      doc.String("source", "Cision RSS feeds"),
		}
		if _, err := doc.Decode("total_news", &feed.TotalNews); err != nil {
			return nil, err
		}
		next.FirmNews = feed
		return dropped, nil
	case FamilyOffices:
		list, dropped, err := decodeList[models.FamilyOffice](doc, "family_offices")
		if err != nil {
			return nil, err
		}
		next.FamilyOffices = list
		return dropped, nil
	case InvestmentCompanies:
		list, dropped, err := decodeList[models.InvestmentCompany](doc, "investment_companies")
		if err != nil {
			return nil, err
		}
		next.InvestmentCompanies = list
		return dropped, nil
	case AICompanies:
		list, dropped, err := decodeList[models.AICompany](doc, "ai_companies")
		if err != nil {
			return nil, err
		}
		next.AICompanies = list
		return dropped, nil
	case AIInvestors:
		list, dropped, err := decodeList[models.AIInvestor](doc, "investors")
		if err != nil {
			return nil, err
		}
		next.AIInvestors = list
		return dropped, nil
	case DealFlow, Fundraising, AIEducational:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
}

// loadLegacyPortfolio reads the older per-firm portfolio document, where
// companies sit under pe_firms.<firm>.companies and take the firm as their
// source.
func (st *State) loadLegacyPortfolio(next *Snapshot) (Outcome, bool) {
	path := st.stores.Path(st.stores.PortfolioLegacy)
	out := Outcome{Collection: Portfolio, Path: path}
	if path == "" {
		return out, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return out, false
	}
	doc, err := parseValidated(legacyPortfolioSchema, data)
	if err != nil {
		st.logger.Warn("legacy portfolio file unreadable", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return out, false
	}

	var firms map[string]struct {
		Companies []json.RawMessage `json:"companies"`
	}
	if _, err := doc.Decode("pe_firms", &firms); err != nil {
		return out, false
	}

	names := make([]string, 0, len(firms))
	for name := range firms {
		names = append(names, name)
	}
	sort.Strings(names)

	var companies []models.PortfolioCompany
	for _, name := range names {
		for _, raw := range firms[name].Companies {
			var pc models.PortfolioCompany
			if err := json.Unmarshal(raw, &pc); err != nil {
				out.Dropped++
				continue
			}
			pc.Source = models.FirmRef(name)
			companies = append(companies, pc)
		}
	}

	next.Portfolio = companies
	next.Documents[Portfolio] = datafile.Document{}
	out.Status = OutcomeLoaded
	out.Records = len(companies)
	st.logger.Info("portfolio loaded from legacy file", map[string]interface{}{
		"path":    path,
		"records": len(companies),
	})
	return out, true
}

func decodeList[T any](doc datafile.Document, field string) ([]T, []error, error) {
	var raw []json.RawMessage
	if _, err := doc.Decode(field, &raw); err != nil {
		return nil, nil, err
	}
	out := make([]T, 0, len(raw))
	var dropped []error
	for i, item := range raw {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			dropped = append(dropped, fmt.Errorf("%s[%d]: %w", field, i, err))
			continue
		}
		out = append(out, rec)
	}
	return out, dropped, nil
}

func decodeMap[T any](doc datafile.Document, field string) (map[string]T, []error, error) {
	var raw map[string]json.RawMessage
	if _, err := doc.Decode(field, &raw); err != nil {
		return nil, nil, err
	}
	out := make(map[string]T, len(raw))
	var dropped []error
	for key, item := range raw {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			dropped = append(dropped, fmt.Errorf("%s[%q]: %w", field, key, err))
			continue
		}
		out[key] = rec
	}
	return out, dropped, nil
}

// clearCollection empties c in s.
func clearCollection(c Collection, s *Snapshot) {
	switch c {
	case Firms:
		s.Firms = map[string]models.Firm{}
		s.firmIndex = models.NewFirmIndex(nil)
	case Portfolio:
		s.Portfolio = nil
	case News:
		s.News = nil
	case FirmNews:
		s.FirmNews = FirmNewsFeed{}
	case FamilyOffices:
		s.FamilyOffices = nil
	case InvestmentCompanies:
		s.InvestmentCompanies = nil
	case AICompanies:
		s.AICompanies = nil
	case AIInvestors:
		s.AIInvestors = nil
	}
	delete(s.Documents, c)
}
