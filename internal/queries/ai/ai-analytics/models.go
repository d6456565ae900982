// internal/queries/ai/ai-analytics/models.go
package aianalytics

import (
	"bytes"
	"encoding/json"

	"pe-insights/internal/models"
)

type CategoryOutput struct {
	Category  string             `json:"category"`
	Count     int                `json:"count"`
	Companies []models.AICompany `json:"companies"`
}

type Analytics struct {
	TotalCompanies  int            `json:"total_companies"`
	Categories      map[string]int `json:"categories"`
	Stages          map[string]int `json:"stages"`
	TopTechnologies RankedCounts   `json:"top_technologies"`
	Unicorns        int            `json:"unicorns"`
	YCAlumni        int            `json:"yc_alumni"`
}

type RankedCount struct {
	Name  string
	Count int
}

// RankedCounts marshals as a JSON object whose keys keep rank order.
type RankedCounts []RankedCount

func (r RankedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rc := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rc.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, _ := json.Marshal(rc.Count)
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
