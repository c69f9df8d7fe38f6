// Package site renders the organization's pages with gomponents and serves
// them, together with the browser side of the motion layer.
package site

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/go-chi/chi/v5"
	g "maragu.dev/gomponents"

	"github.com/ziadkadry99/youthsite/internal/content"
	"github.com/ziadkadry99/youthsite/internal/logging"
	"github.com/ziadkadry99/youthsite/internal/motion"
)

//go:embed static
var staticFS embed.FS

// Theme cookie settings.
const (
	ThemeCookie  = "theme"
	DefaultTheme = "dark"
)

// Motion carries the animation constants emitted to the browser as data
// attributes, so the shipped script and the Go motion package agree.
type Motion struct {
	NavThreshold      float64
	CountUpMillis     int
	ViewportThreshold float64
	SafeZone          float64
	FadeZone          float64
}

// DefaultMotion mirrors the defaults of the motion package.
func DefaultMotion() Motion {
	return Motion{
		NavThreshold:      motion.DefaultNavThreshold,
		CountUpMillis:     int(motion.DefaultCountUpDuration.Milliseconds()),
		ViewportThreshold: motion.DefaultViewportThreshold,
		SafeZone:          motion.DefaultSafeZone,
		FadeZone:          motion.DefaultFadeZone,
	}
}

// Site renders pages from a content catalog.
type Site struct {
	catalog *content.Catalog
	motion  Motion
	logger  *slog.Logger
}

// New creates a Site.
func New(catalog *content.Catalog, m Motion, logger *slog.Logger) *Site {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Site{catalog: catalog, motion: m, logger: logger.With(logging.Scope("site"))}
}

// RegisterRoutes mounts the HTML pages, the theme switch and /static/.
func (s *Site) RegisterRoutes(r chi.Router) {
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded at build time
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Get("/", s.page(s.homePage))
	r.Get("/departments", s.page(s.departmentsPage))
	r.Get("/departments/{slug}", s.slugPage(s.departmentPage))
	r.Get("/events", s.page(s.eventsPage))
	r.Get("/events/{slug}", s.slugPage(s.eventPage))
	r.Get("/roadmap", s.page(s.roadmapPage))
	r.Get("/impact", s.page(s.impactPage))
	r.Get("/search-index.json", s.handleSearchIndex)
	r.Get("/theme/{name}", s.handleTheme)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusNotFound, s.notFoundPage(themeFrom(r)))
	})
}

type pageFunc func(theme string) g.Node

type slugPageFunc func(theme, slug string) (g.Node, bool)

func (s *Site) page(fn pageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, fn(themeFrom(r)))
	}
}

func (s *Site) slugPage(fn slugPageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme := themeFrom(r)
		node, ok := fn(theme, chi.URLParam(r, "slug"))
		if !ok {
			s.render(w, http.StatusNotFound, s.notFoundPage(theme))
			return
		}
		s.render(w, http.StatusOK, node)
	}
}

func (s *Site) render(w http.ResponseWriter, status int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		s.logger.Error("rendering page", logging.Err(err))
	}
}

func (s *Site) handleTheme(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != "dark" && name != "light" {
		http.Error(w, "unknown theme", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    name,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// safeNext only allows same-site relative redirects.
func safeNext(next string) string {
	if next == "" || next[0] != '/' {
		return "/"
	}
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return next
}

func themeFrom(r *http.Request) string {
	c, err := r.Cookie(ThemeCookie)
	if err != nil {
		return DefaultTheme
	}
	if c.Value == "light" {
		return "light"
	}
	return DefaultTheme
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
