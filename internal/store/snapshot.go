// internal/store/snapshot.go
package store

import (
	"sort"
	"time"

	"pe-insights/internal/models"
	"pe-insights/pkg/datafile"
)

// FirmNewsFeed is the firm news document: the articles plus the feed
// header fields.
type FirmNewsFeed struct {
	News        []models.NewsArticle
	TotalNews   int
	LastUpdated string
	Source      string
}

// Snapshot is one immutable generation of every collection. Consumers must
// not modify it; derive a new one through State.Update instead.
type Snapshot struct {
	Version uint64
	// Generation is unique per swap across processes, unlike Version which
	// restarts at 1 on every boot.
	Generation string
	LoadedAt   time.Time

	Firms               map[string]models.Firm
	Portfolio           []models.PortfolioCompany
	News                []models.NewsArticle
	FirmNews            FirmNewsFeed
	FamilyOffices       []models.FamilyOffice
	InvestmentCompanies []models.InvestmentCompany
	AICompanies         []models.AICompany
	AIInvestors         []models.AIInvestor

	// Documents keeps the raw document of every collection that loaded, for
	// header fields such as metadata and for pass-through collections.
	Documents map[Collection]datafile.Document

	firmIndex *models.FirmIndex
}

func emptySnapshot() *Snapshot {
	s := &Snapshot{
		Firms:     map[string]models.Firm{},
		Documents: map[Collection]datafile.Document{},
	}
	s.firmIndex = models.NewFirmIndex(nil)
	return s
}

// clone copies the snapshot header and maps. Slices are shared, so
// callers replace them rather than edit in place.
func (s *Snapshot) clone() *Snapshot {
	out := *s
	out.Documents = make(map[Collection]datafile.Document, len(s.Documents))
	for k, v := range s.Documents {
		out.Documents[k] = v
	}
	return &out
}

// Firm looks a firm up by exact name.
func (s *Snapshot) Firm(name string) (models.Firm, bool) {
	f, ok := s.Firms[name]
	return f, ok
}

// FirmNames returns the firm keys in sorted order.
func (s *Snapshot) FirmNames() []string {
	names := make([]string, 0, len(s.Firms))
	for name := range s.Firms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FirmIndex resolves firm references against this snapshot's firms.
func (s *Snapshot) FirmIndex() *models.FirmIndex {
	if s.firmIndex == nil {
		return models.NewFirmIndex(s.FirmNames())
	}
	return s.firmIndex
}

// Document returns the raw document of c, or an empty one.
func (s *Snapshot) Document(c Collection) datafile.Document {
	if doc, ok := s.Documents[c]; ok {
		return doc
	}
	return datafile.Document{}
}

// Loaded reports whether c was read successfully into this snapshot.
func (s *Snapshot) Loaded(c Collection) bool {
	_, ok := s.Documents[c]
	return ok
}

// Count returns the number of records held for c.
func (s *Snapshot) Count(c Collection) int {
	switch c {
	case Firms:
		return len(s.Firms)
	case Portfolio:
		return len(s.Portfolio)
	case News:
		return len(s.News)
	case FirmNews:
		return len(s.FirmNews.News)
	case FamilyOffices:
		return len(s.FamilyOffices)
	case InvestmentCompanies:
		return len(s.InvestmentCompanies)
	case AICompanies:
		return len(s.AICompanies)
	case AIInvestors:
		return len(s.AIInvestors)
	default:
		if s.Loaded(c) {
			return 1
		}
		return 0
	}
}
