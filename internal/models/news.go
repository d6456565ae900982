// internal/models/news.go
package models

import "time"

// NewsArticle is one record of either news store. PublishedAt is parsed
// from Date when the record is decoded; it is zero if the date is missing
// or in an unknown format.
type NewsArticle struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Link           string  `json:"link,omitempty"`
	URL            string  `json:"url,omitempty"`
	Date           string  `json:"date"`
	Firm           FirmRef `json:"firm,omitempty"`
	Category       string  `json:"category,omitempty"`
	Source         string  `json:"source,omitempty"`
	RelatedFirm    string  `json:"related_firm,omitempty"`
	RelatedCompany string  `json:"related_company,omitempty"`

	PublishedAt time.Time `json:"-"`
	Extra       Extras    `json:"-"`
}

func (a *NewsArticle) UnmarshalJSON(data []byte) error {
	type plain NewsArticle
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	if t, ok := ParseDate(out.Date); ok {
		out.PublishedAt = t
	}
	*a = NewsArticle(out)
	return nil
}

func (a NewsArticle) MarshalJSON() ([]byte, error) {
	type plain NewsArticle
	return encodeRecord(plain(a), a.Extra)
}

// HasDate reports whether the date parsed.
func (a NewsArticle) HasDate() bool { return !a.PublishedAt.IsZero() }

// Newer orders articles newest first. Dated articles precede undated ones;
// undated articles fall back to comparing the raw date text descending.
func Newer(a, b NewsArticle) bool {
	switch {
	case a.HasDate() && b.HasDate():
		return a.PublishedAt.After(b.PublishedAt)
	case a.HasDate() != b.HasDate():
		return a.HasDate()
	default:
		return a.Date > b.Date
	}
}
