package content

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed data/site.yaml
var embeddedSite []byte

// Catalog is the read-only set of content tables served by the site.
type Catalog struct {
	hero         Hero
	stats        []Stat
	departments  []Department
	events       []EventRecord
	testimonials []Testimonial
}

// Load parses the built-in tables and then merges every file under
// overlayDir that matches one of the include globs. Overlay records replace
// built-in records with the same id. An empty overlayDir loads only the
// built-in tables.
func Load(overlayDir string, include []string) (*Catalog, error) {
	c := &Catalog{}
	if err := c.merge(embeddedSite, "embedded site.yaml"); err != nil {
		return nil, err
	}

	if overlayDir == "" {
		return c.finish(), nil
	}

	files, err := overlayFiles(overlayDir, include)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading content overlay %s: %w", path, err)
		}
		if err := c.merge(data, path); err != nil {
			return nil, err
		}
	}
	return c.finish(), nil
}

// overlayFiles returns the matching files under dir in lexical order, so
// later files win deterministically.
func overlayFiles(dir string, include []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if matchesAny(rel, include) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking content overlay %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// matchesAny reports whether relPath matches any include glob. An empty
// list matches everything.
func matchesAny(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		// Also try the bare filename so "*.yaml" works at any depth.
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(normalized)); err == nil && matched {
			return true
		}
	}
	return false
}

func (c *Catalog) merge(data []byte, source string) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", source, err)
	}
	if doc.Hero != nil {
		c.hero = *doc.Hero
	}
	c.stats = upsert(c.stats, doc.Stats, func(s Stat) string { return s.ID })
	c.departments = upsert(c.departments, doc.Departments, func(d Department) string { return d.ID })
	c.events = upsert(c.events, doc.Events, func(e EventRecord) string { return e.ID })
	c.testimonials = upsert(c.testimonials, doc.Testimonials, func(t Testimonial) string { return t.ID })
	return nil
}

// upsert replaces records with a matching id in place and appends the rest.
func upsert[T any](existing, incoming []T, id func(T) string) []T {
	index := make(map[string]int, len(existing))
	for i, rec := range existing {
		index[id(rec)] = i
	}
	for _, rec := range incoming {
		if i, ok := index[id(rec)]; ok && id(rec) != "" {
			existing[i] = rec
			continue
		}
		index[id(rec)] = len(existing)
		existing = append(existing, rec)
	}
	return existing
}

// finish fills derived fields and orders events newest first.
func (c *Catalog) finish() *Catalog {
	for i := range c.events {
		if c.events[i].Slug == "" {
			c.events[i].Slug = Slugify(c.events[i].Name)
		}
	}
	for i := range c.departments {
		if c.departments[i].Slug == "" {
			c.departments[i].Slug = Slugify(c.departments[i].Name)
		}
	}
	sort.SliceStable(c.events, func(i, j int) bool {
		return c.events[i].Year > c.events[j].Year
	})
	return c
}

// Hero returns the home page copy.
func (c *Catalog) Hero() Hero {
	return c.hero
}

// Stats returns the dashboard counters.
func (c *Catalog) Stats() []Stat {
	return append([]Stat(nil), c.stats...)
}

// Testimonials returns all testimonials.
func (c *Catalog) Testimonials() []Testimonial {
	return append([]Testimonial(nil), c.testimonials...)
}

// Departments returns all departments in authoring order.
func (c *Catalog) Departments() []Department {
	return append([]Department(nil), c.departments...)
}

// DepartmentBySlug looks up a department.
func (c *Catalog) DepartmentBySlug(slug string) (Department, bool) {
	for _, d := range c.departments {
		if d.Slug == slug {
			return d, true
		}
	}
	return Department{}, false
}

// Events returns the event archive, newest year first.
func (c *Catalog) Events() []EventRecord {
	return append([]EventRecord(nil), c.events...)
}

// EventsByYear returns the events held in year.
func (c *Catalog) EventsByYear(year int) []EventRecord {
	var out []EventRecord
	for _, e := range c.events {
		if e.Year == year {
			out = append(out, e)
		}
	}
	return out
}

// EventBySlug looks up an event.
func (c *Catalog) EventBySlug(slug string) (EventRecord, bool) {
	for _, e := range c.events {
		if e.Slug == slug {
			return e, true
		}
	}
	return EventRecord{}, false
}

// Years returns the distinct event years, newest first.
func (c *Catalog) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, e := range c.events {
		if !seen[e.Year] {
			seen[e.Year] = true
			years = append(years, e.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
