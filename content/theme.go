package content

// Theme carries presentation enumerations. They map onto data attributes on
// the <html> element; nothing in the renderer branches on them.
type Theme struct {
	ColorScheme string `json:"colorScheme,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Accent      string `json:"accent,omitempty"`
	HeadingFont string `json:"headingFont,omitempty"`
	BodyFont    string `json:"bodyFont,omitempty"`
	MonoFont    string `json:"monoFont,omitempty"`
	Radius      string `json:"radius,omitempty"`
	ButtonStyle string `json:"buttonStyle,omitempty"`
	Container   string `json:"container,omitempty"`
}

type themeOption struct {
	def     string
	allowed []string
}

var themeOptions = map[string]themeOption{
	"colorScheme": {"jw-orange-black", []string{"jw-orange-black", "blue-white", "black-white", "green-charcoal", "purple-dark"}},
	"mode":        {"light", []string{"light", "dark", "system"}},
	"accent":      {"solid", []string{"solid", "outline", "soft"}},
	"headingFont": {"inter", []string{"inter", "poppins", "montserrat", "playfair"}},
	"bodyFont":    {"inter", []string{"inter", "roboto", "opensans"}},
	"monoFont":    {"ibmplexmono", []string{"ibmplexmono", "jetbrainsmono", "spacemono"}},
	"radius":      {"xl", []string{"none", "sm", "md", "lg", "xl", "2xl"}},
	"buttonStyle": {"pill", []string{"pill", "rounded", "square"}},
	"container":   {"default", []string{"default", "wide", "narrow"}},
}

func pickOption(name, v string) string {
	opt := themeOptions[name]
	for _, a := range opt.allowed {
		if a == v {
			return v
		}
	}
	return opt.def
}

// WithDefaults returns t with empty or unknown values replaced by defaults.
func (t Theme) WithDefaults() Theme {
	return Theme{
		ColorScheme: pickOption("colorScheme", t.ColorScheme),
		Mode:        pickOption("mode", t.Mode),
		Accent:      pickOption("accent", t.Accent),
		HeadingFont: pickOption("headingFont", t.HeadingFont),
		BodyFont:    pickOption("bodyFont", t.BodyFont),
		MonoFont:    pickOption("monoFont", t.MonoFont),
		Radius:      pickOption("radius", t.Radius),
		ButtonStyle: pickOption("buttonStyle", t.ButtonStyle),
		Container:   pickOption("container", t.Container),
	}
}

// DataAttrs returns the theme as data-* attribute pairs in a stable order.
func (t Theme) DataAttrs() [][2]string {
	t = t.WithDefaults()
	return [][2]string{
		{"data-color-scheme", t.ColorScheme},
		{"data-mode", t.Mode},
		{"data-accent", t.Accent},
		{"data-heading-font", t.HeadingFont},
		{"data-body-font", t.BodyFont},
		{"data-mono-font", t.MonoFont},
		{"data-radius", t.Radius},
		{"data-button-style", t.ButtonStyle},
		{"data-container", t.Container},
	}
}
