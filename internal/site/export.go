package site

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	g "maragu.dev/gomponents"
)

// Export writes every page as static HTML under dir, copies the static
// assets next to them and writes search-index.json. It returns the number
// of pages written.
func (s *Site) Export(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	pages := map[string]g.Node{
		"/":            s.homePage(DefaultTheme),
		"/departments": s.departmentsPage(DefaultTheme),
		"/events":      s.eventsPage(DefaultTheme),
		"/roadmap":     s.roadmapPage(DefaultTheme),
		"/impact":      s.impactPage(DefaultTheme),
	}
	for _, d := range s.catalog.Departments() {
		if node, ok := s.departmentPage(DefaultTheme, d.Slug); ok {
			pages["/departments/"+d.Slug] = node
		}
	}
	for _, e := range s.catalog.Events() {
		if node, ok := s.eventPage(DefaultTheme, e.Slug); ok {
			pages["/events/"+e.Slug] = node
		}
	}

	for path, node := range pages {
		if err := writePage(dir, path, node); err != nil {
			return 0, err
		}
	}
	if err := writePage(dir, "/404.html", s.notFoundPage(DefaultTheme)); err != nil {
		return 0, err
	}

	if err := copyStatic(filepath.Join(dir, "static")); err != nil {
		return 0, err
	}
	if err := WriteSearchIndex(BuildSearchIndex(s.catalog), filepath.Join(dir, "search-index.json")); err != nil {
		return 0, fmt.Errorf("writing search index: %w", err)
	}
	return len(pages), nil
}

// writePage maps /a/b to dir/a/b/index.html; paths ending in .html are
// written as-is.
func writePage(dir, path string, node g.Node) error {
	rel := strings.TrimPrefix(path, "/")
	var outPath string
	if strings.HasSuffix(rel, ".html") {
		outPath = filepath.Join(dir, filepath.FromSlash(rel))
	} else {
		outPath = filepath.Join(dir, filepath.FromSlash(rel), "index.html")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()
	if err := node.Render(f); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}

func copyStatic(dst string) error {
	return fs.WalkDir(staticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(path, "static")
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := staticFS.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
