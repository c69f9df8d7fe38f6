package site

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/ziadkadry99/youthsite/internal/content"
)

// SearchEntry represents a single searchable page of the site.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// BuildSearchIndex builds the client-side search index from the catalog:
// one entry per department and per event.
func BuildSearchIndex(catalog *content.Catalog) []SearchEntry {
	var entries []SearchEntry
	for _, d := range catalog.Departments() {
		entries = append(entries, SearchEntry{
			Path:    "/departments/" + d.Slug,
			Title:   d.Name,
			Summary: d.Tagline,
			Content: plainText(d.Description + " " + strings.Join(d.FocusAreas, " ")),
		})
	}
	for _, e := range catalog.Events() {
		entries = append(entries, SearchEntry{
			Path:    "/events/" + e.Slug,
			Title:   e.Name,
			Summary: e.Tagline,
			Content: plainText(e.Description),
		})
	}
	return entries
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func (s *Site) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BuildSearchIndex(s.catalog))
}

// plainText strips markdown markers and collapses whitespace. It is only
// meant for substring search, not display.
func plainText(md string) string {
	r := strings.NewReplacer("#", " ", "*", " ", "_", " ", "`", " ", ">", " ", "[", " ", "]", " ")
	return strings.Join(strings.Fields(r.Replace(md)), " ")
}
