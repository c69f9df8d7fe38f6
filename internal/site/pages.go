package site

import (
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/ziadkadry99/youthsite/internal/content"
)

func (s *Site) homePage(theme string) g.Node {
	hero := s.catalog.Hero()

	stats := make([]g.Node, 0, len(s.catalog.Stats()))
	for _, st := range s.catalog.Stats() {
		stats = append(stats, s.statCard(st))
	}

	depts := make([]g.Node, 0)
	for _, d := range s.catalog.Departments() {
		depts = append(depts, departmentCard(d))
	}

	events := s.catalog.Events()
	if len(events) > 3 {
		events = events[:3]
	}
	recent := make([]g.Node, 0, len(events))
	for _, e := range events {
		recent = append(recent, eventCard(e))
	}

	quotes := make([]g.Node, 0)
	for _, t := range s.catalog.Testimonials() {
		quotes = append(quotes, testimonial(t))
	}

	return s.layout(pageConfig{Theme: theme, Path: "/"},
		Section(
			ID("hero"),
			Class("hero"),
			g.If(hero.VideoURL != "", g.El("video",
				Class("hero-video"),
				Src(hero.VideoURL),
				g.Attr("autoplay"), g.Attr("muted"), g.Attr("loop"), g.Attr("playsinline"),
				g.Attr("aria-hidden", "true"),
			)),
			Div(Class("hero-copy"),
				H1(g.Text(hero.Title)),
				P(Class("lead"), g.Text(hero.Subtitle)),
				g.If(hero.CTA != "", A(Class("btn"), Href("/departments"), g.Text(hero.CTA))),
			),
		),
		s.reveal("stats", H2(g.Text("Our impact so far")), Div(Class("stats"), g.Group(stats))),
		s.reveal("departments", H2(g.Text("Find your department")), Div(Class("grid"), g.Group(depts))),
		s.reveal("recent-events", H2(g.Text("Recent events")), Div(Class("grid"), g.Group(recent)),
			A(Href("/events"), g.Text("See the full archive"))),
		s.reveal("testimonials", H2(g.Text("In their words")), Div(Class("testimonials"), g.Group(quotes))),
		s.reveal("tools", H2(g.Text("Plan your next step")),
			Div(Class("grid"),
				Article(Class("card"), H3(A(Href("/roadmap"), g.Text("Skill Roadmap"))),
					P(g.Text("Name a skill and get a four step plan to grow it."))),
				Article(Class("card"), H3(A(Href("/impact"), g.Text("Impact Vision"))),
					P(g.Text("Name a cause and see what change could look like."))),
			),
		),
	)
}

func (s *Site) departmentsPage(theme string) g.Node {
	cards := make([]g.Node, 0)
	for _, d := range s.catalog.Departments() {
		cards = append(cards, departmentCard(d))
	}
	return s.layout(pageConfig{Title: "Departments", Theme: theme, Path: "/departments"},
		Section(Class("page-head"), H1(g.Text("Departments"))),
		s.reveal("department-list", Div(Class("grid"), g.Group(cards))),
	)
}

func (s *Site) departmentPage(theme, slug string) (g.Node, bool) {
	d, ok := s.catalog.DepartmentBySlug(slug)
	if !ok {
		return nil, false
	}
	focus := make([]g.Node, 0, len(d.FocusAreas))
	for _, f := range d.FocusAreas {
		focus = append(focus, Li(g.Text(f)))
	}
	return s.layout(pageConfig{Title: d.Name, Description: d.Tagline, Theme: theme, Path: "/departments/" + d.Slug},
		Section(Class("page-head"),
			H1(g.Text(d.Name)),
			P(Class("lead"), g.Text(d.Tagline)),
			g.If(d.Lead != "", P(Class("muted"), g.Text("Led by "+d.Lead))),
		),
		scrollImage("dept-"+d.Slug, d.ImageURL, d.Name),
		s.reveal("about", markdown(d.Description)),
		g.If(len(focus) > 0, s.reveal("focus", H2(g.Text("Focus areas")), Ul(focus...))),
	), true
}

func (s *Site) eventsPage(theme string) g.Node {
	var sections []g.Node
	for _, year := range s.catalog.Years() {
		cards := make([]g.Node, 0)
		for _, e := range s.catalog.EventsByYear(year) {
			cards = append(cards, eventCard(e))
		}
		y := strconv.Itoa(year)
		sections = append(sections, s.reveal("year-"+y, H2(g.Text(y)), Div(Class("grid"), g.Group(cards))))
	}
	return s.layout(pageConfig{Title: "Events", Theme: theme, Path: "/events"},
		Section(Class("page-head"), H1(g.Text("Event archive"))),
		g.Group(sections),
	)
}

func (s *Site) eventPage(theme, slug string) (g.Node, bool) {
	e, ok := s.catalog.EventBySlug(slug)
	if !ok {
		return nil, false
	}
	return s.layout(pageConfig{Title: e.Name, Description: e.Tagline, Theme: theme, Path: "/events/" + e.Slug},
		Section(Class("page-head"),
			Span(Class("badge"), g.Text(strconv.Itoa(e.Year))),
			H1(g.Text(e.Name)),
			P(Class("lead"), g.Text(e.Tagline)),
		),
		scrollImage("event-"+e.Slug, e.ImageURL, e.Name),
		s.reveal("metrics", Div(Class("stats"),
			s.statCard(content.Stat{Label: "Reach", Value: float64(e.Metrics.Reach), Suffix: "+"}),
			s.statCard(content.Stat{Label: "Ambassadors", Value: float64(e.Metrics.Ambassadors)}),
			s.statCard(content.Stat{Label: "Participants", Value: float64(e.Metrics.Participants)}),
		)),
		s.reveal("story", markdown(e.Description)),
		s.reveal("demographics",
			demographicBars("Geography", e.Demographics.Geography),
			demographicBars("Education", e.Demographics.Education),
		),
	), true
}

func (s *Site) roadmapPage(theme string) g.Node {
	return s.layout(pageConfig{Title: "Skill Roadmap", Theme: theme, Path: "/roadmap"},
		generatorPanel("roadmap", "Skill Roadmap", "Which skill do you want to grow?", "skill", "Public Speaking"),
	)
}

func (s *Site) impactPage(theme string) g.Node {
	return s.layout(pageConfig{Title: "Impact Vision", Theme: theme, Path: "/impact"},
		generatorPanel("impact", "Impact Vision", "Which cause matters to you?", "topic", "Clean Water"),
	)
}

func (s *Site) notFoundPage(theme string) g.Node {
	return s.layout(pageConfig{Title: "Not found", Theme: theme},
		Section(Class("page-head"),
			H1(g.Text("Page not found")),
			P(A(Href("/"), g.Text("Back to the home page"))),
		),
	)
}
