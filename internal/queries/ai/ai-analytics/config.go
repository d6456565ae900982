// internal/queries/ai/ai-analytics/config.go
package aianalytics

type Config struct {
	TopTechnologies int
	UnicornMarker   string
	YCMarker        string
}

func LoadConfig() *Config {
	return &Config{
		TopTechnologies: 15,
		UnicornMarker:   "Unicorn",
		YCMarker:        "Y Combinator",
	}
}
