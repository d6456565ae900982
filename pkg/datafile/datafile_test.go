package datafile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"object", `{"news": [], "total_news": 0}`, false},
		{"array", `[1, 2]`, true},
		{"null", `null`, true},
		{"truncated", `{"news": [`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pe_news_database.json")

	doc := Document{}
	require.NoError(t, doc.Set("news", []map[string]string{{"title": "Ratos & Co", "link": "https://x/1"}}))
	require.NoError(t, doc.Set("total_news", 1))
	require.NoError(t, Save(path, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Ratos & Co")
	assert.Contains(t, string(raw), "\n  \"news\"")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Has("news"))
	assert.Equal(t, float64(1), loaded.Value("total_news", 0))
	assert.Equal(t, "Cision RSS feeds", loaded.String("source", "Cision RSS feeds"))

	var news []map[string]string
	found, err := loaded.Decode("news", &news)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://x/1", news[0]["link"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDocument_Decode(t *testing.T) {
	doc, err := Parse([]byte(`{"count": "three"}`))
	require.NoError(t, err)

	var n int
	found, err := doc.Decode("count", &n)
	assert.True(t, found)
	assert.Error(t, err)

	found, err = doc.Decode("missing", &n)
	assert.False(t, found)
	assert.NoError(t, err)
}
