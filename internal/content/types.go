package content

// Hero is the copy shown above the fold on the home page.
type Hero struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	CTA      string `yaml:"cta" json:"cta"`
	VideoURL string `yaml:"video_url" json:"videoUrl,omitempty"`
}

// Stat is one counter on the statistics dashboard.
type Stat struct {
	ID     string  `yaml:"id" json:"id"`
	Label  string  `yaml:"label" json:"label"`
	Value  float64 `yaml:"value" json:"value"`
	Suffix string  `yaml:"suffix" json:"suffix,omitempty"`
}

// EventMetrics is the reach block of an event.
type EventMetrics struct {
	Reach        int `yaml:"reach" json:"reach"`
	Ambassadors  int `yaml:"ambassadors" json:"ambassadors"`
	Participants int `yaml:"participants" json:"participants"`
}

// Demographics holds author-supplied percentage breakdowns. The values are
// not required to sum to 100.
type Demographics struct {
	Geography map[string]float64 `yaml:"geography" json:"geography"`
	Education map[string]float64 `yaml:"education" json:"education"`
}

// EventRecord is an entry in the event archive.
type EventRecord struct {
	ID           string       `yaml:"id" json:"id"`
	Slug         string       `yaml:"slug" json:"slug"`
	Name         string       `yaml:"name" json:"name"`
	Tagline      string       `yaml:"tagline" json:"tagline"`
	Description  string       `yaml:"description" json:"description"`
	ImageURL     string       `yaml:"image_url" json:"imageUrl"`
	Year         int          `yaml:"year" json:"year"`
	Metrics      EventMetrics `yaml:"metrics" json:"metrics"`
	Demographics Demographics `yaml:"demographics" json:"demographics"`
}

// Department is one of the organization's working groups.
type Department struct {
	ID          string   `yaml:"id" json:"id"`
	Slug        string   `yaml:"slug" json:"slug"`
	Name        string   `yaml:"name" json:"name"`
	Tagline     string   `yaml:"tagline" json:"tagline"`
	Description string   `yaml:"description" json:"description"`
	Lead        string   `yaml:"lead" json:"lead"`
	FocusAreas  []string `yaml:"focus_areas" json:"focusAreas"`
	ImageURL    string   `yaml:"image_url" json:"imageUrl"`
}

// Testimonial is a quote from a member or partner.
type Testimonial struct {
	ID     string `yaml:"id" json:"id"`
	Quote  string `yaml:"quote" json:"quote"`
	Author string `yaml:"author" json:"author"`
	Role   string `yaml:"role" json:"role"`
}

// document is the on-disk shape of the embedded tables and of every
// overlay file. Overlay files may carry any subset of the sections.
type document struct {
	Hero         *Hero         `yaml:"hero"`
	Stats        []Stat        `yaml:"stats"`
	Departments  []Department  `yaml:"departments"`
	Events       []EventRecord `yaml:"events"`
	Testimonials []Testimonial `yaml:"testimonials"`
}
