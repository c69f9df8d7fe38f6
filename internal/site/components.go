package site

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/ziadkadry99/youthsite/internal/content"
	"github.com/ziadkadry99/youthsite/internal/motion"
)

type pageConfig struct {
	Title       string
	Description string
	Theme       string
	Path        string
}

const siteName = "Youth Forward"

func (s *Site) layout(cfg pageConfig, children ...g.Node) g.Node {
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	title := siteName
	if cfg.Title != "" {
		title = cfg.Title + " | " + siteName
	}
	if cfg.Description == "" {
		cfg.Description = s.catalog.Hero().Subtitle
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			g.Attr("data-theme", cfg.Theme),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Meta(Name("description"), Content(cfg.Description)),
				Meta(g.Attr("property", "og:title"), Content(title)),
				Meta(g.Attr("property", "og:description"), Content(cfg.Description)),
				Link(Rel("stylesheet"), Href("/static/styles.css")),
			),
			Body(
				g.Attr("data-safe-zone", formatFloat(s.motion.SafeZone)),
				g.Attr("data-fade-zone", formatFloat(s.motion.FadeZone)),
				s.navbar(cfg),
				Main(ID("content"), g.Group(children)),
				footer(),
				Script(Type("module"), Src("/static/js/theme.js")),
				Script(Type("module"), Src("/static/js/motion.js")),
				Script(Type("module"), Src("/static/js/generator.js")),
			),
		),
	})
}

func (s *Site) navbar(cfg pageConfig) g.Node {
	next := cfg.Path
	if next == "" {
		next = "/"
	}
	other := "light"
	if cfg.Theme == "light" {
		other = "dark"
	}
	return Header(
		ID("site-nav"),
		Class("nav"),
		g.Attr("data-nav-threshold", formatFloat(s.motion.NavThreshold)),
		g.Attr("data-visible", "true"),
		A(Class("nav-logo"), Href("/"), g.Text(siteName)),
		Nav(
			Ul(
				navLink("/departments", "Departments", cfg.Path),
				navLink("/events", "Events", cfg.Path),
				navLink("/roadmap", "Skill Roadmap", cfg.Path),
				navLink("/impact", "Impact Vision", cfg.Path),
			),
		),
		A(
			Class("theme-toggle"),
			Href("/theme/"+other+"?next="+next),
			g.Attr("data-theme-switch", other),
			g.Attr("aria-label", "Switch to "+other+" theme"),
			g.Text(other),
		),
	)
}

func navLink(href, label, current string) g.Node {
	return Li(A(
		Href(href),
		g.If(current == href, g.Attr("aria-current", "page")),
		g.Text(label),
	))
}

func footer() g.Node {
	return Footer(
		Class("footer"),
		P(g.Textf("© %d %s. Built by young people, for young people.", time.Now().Year(), siteName)),
	)
}

// reveal wraps children in a block that fades in once the viewport
// threshold of its area is visible.
func (s *Site) reveal(id string, children ...g.Node) g.Node {
	return Section(
		ID(id),
		Class("reveal"),
		g.Attr("data-viewport-threshold", formatFloat(s.motion.ViewportThreshold)),
		g.Group(children),
	)
}

// countUp renders a counter that starts at zero and animates to end. The
// aria-label carries the final value so assistive technology never reads
// the intermediate frames.
func (s *Site) countUp(end float64, suffix string) g.Node {
	d := float64(s.motion.CountUpMillis)
	final := strconv.Itoa(int(motion.ValueAt(d, end, d))) + suffix
	return Span(
		Class("countup"),
		g.Attr("data-countup-end", formatFloat(end)),
		g.Attr("data-countup-duration", strconv.Itoa(s.motion.CountUpMillis)),
		g.If(suffix != "", g.Attr("data-countup-suffix", suffix)),
		g.Attr("data-viewport-threshold", formatFloat(s.motion.ViewportThreshold)),
		g.Attr("aria-label", final),
		g.Text("0"+suffix),
	)
}

func (s *Site) statCard(st content.Stat) g.Node {
	return Div(
		Class("stat"),
		Div(Class("stat-value"), s.countUp(st.Value, st.Suffix)),
		Div(Class("stat-label"), g.Text(st.Label)),
	)
}

// scrollImage is an image desaturated by its distance from the viewport
// center.
func scrollImage(id, src, alt string) g.Node {
	if src == "" {
		return nil
	}
	return Img(
		ID(id),
		Class("scroll-gray"),
		Src(src),
		Alt(alt),
		g.Attr("loading", "lazy"),
		g.Attr("data-grayscale", ""),
	)
}

func departmentCard(d content.Department) g.Node {
	return Article(
		Class("card"),
		scrollImage("dept-"+d.Slug, d.ImageURL, d.Name),
		H3(A(Href("/departments/"+d.Slug), g.Text(d.Name))),
		P(g.Text(d.Tagline)),
	)
}

func eventCard(e content.EventRecord) g.Node {
	return Article(
		Class("card"),
		scrollImage("event-"+e.Slug, e.ImageURL, e.Name),
		Span(Class("badge"), g.Text(strconv.Itoa(e.Year))),
		H3(A(Href("/events/"+e.Slug), g.Text(e.Name))),
		P(g.Text(e.Tagline)),
	)
}

func testimonial(t content.Testimonial) g.Node {
	return g.El("blockquote",
		Class("testimonial"),
		P(g.Text(t.Quote)),
		g.El("cite", g.Text(t.Author), g.If(t.Role != "", g.Text(", "+t.Role))),
	)
}

// demographicBars renders one bar per key, widths taken as given. Author
// supplied percentages are not normalized.
func demographicBars(heading string, values map[string]float64) g.Node {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if values[keys[i]] != values[keys[j]] {
			return values[keys[i]] > values[keys[j]]
		}
		return keys[i] < keys[j]
	})
	rows := make([]g.Node, 0, len(keys))
	for _, k := range keys {
		v := values[k]
		width := v
		if width > 100 {
			width = 100
		}
		if width < 0 {
			width = 0
		}
		rows = append(rows, Li(
			Class("bar"),
			Span(Class("bar-label"), g.Text(k)),
			Span(Class("bar-track"), Span(Class("bar-fill"), g.Attr("style", fmt.Sprintf("width: %s%%", formatFloat(width))))),
			Span(Class("bar-value"), g.Text(formatFloat(v)+"%")),
		))
	}
	return Div(Class("demographics"), H3(g.Text(heading)), Ul(rows...))
}

// markdown renders a content body. Bodies that fail to render are shown
// as plain text.
func markdown(src string) g.Node {
	out, err := content.RenderMarkdown(src)
	if err != nil {
		return P(g.Text(src))
	}
	return Div(Class("prose"), g.Raw(out))
}

// generatorPanel is the form driven by generator.js. Without scripts the
// form still posts to the JSON endpoint.
func generatorPanel(kind, heading, label, field, placeholder string) g.Node {
	return Section(
		Class("generator"),
		g.Attr("data-generator-kind", kind),
		H1(g.Text(heading)),
		g.El("form",
			Method("post"),
			Action("/api/generate/"+kind),
			g.Attr("data-generator-form", kind),
			Label(For(field), g.Text(label)),
			Input(ID(field), Name(field), Type("text"), Placeholder(placeholder), g.Attr("maxlength", "200"), g.Attr("autocomplete", "off")),
			Button(Type("submit"), g.Text("Generate")),
			Button(Type("button"), g.Attr("data-generator-reset", kind), g.Text("Start over")),
		),
		Div(Class("generator-status"), g.Attr("aria-live", "polite"), g.Attr("data-generator-status", kind)),
		Div(Class("generator-output"), g.Attr("data-generator-output", kind)),
	)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
