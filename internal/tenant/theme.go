package tenant

import "sort"

// Theme is a named color scheme applied to a tenant site
type Theme struct {
	ID           string `json:"id"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
}

// DefaultThemeID is used for tenants without a known theme
const DefaultThemeID = "default"

var themes = map[string]Theme{
	DefaultThemeID: {ID: DefaultThemeID, PrimaryColor: "#2563eb", AccentColor: "#f59e0b"},
	"medical":      {ID: "medical", PrimaryColor: "#0d9488", AccentColor: "#38bdf8"},
	"ocean":        {ID: "ocean", PrimaryColor: "#0369a1", AccentColor: "#22d3ee"},
	"forest":       {ID: "forest", PrimaryColor: "#15803d", AccentColor: "#a3e635"},
	"sunset":       {ID: "sunset", PrimaryColor: "#c2410c", AccentColor: "#facc15"},
	"midnight":     {ID: "midnight", PrimaryColor: "#1e1b4b", AccentColor: "#a78bfa"},
}

// LookupTheme returns the theme for id, falling back to the default theme
func LookupTheme(id string) Theme {
	if t, ok := themes[id]; ok {
		return t
	}
	return themes[DefaultThemeID]
}

// IsKnownTheme reports whether id names a registered theme
func IsKnownTheme(id string) bool {
	_, ok := themes[id]
	return ok
}

// Themes lists the registered themes sorted by id
func Themes() []Theme {
	out := make([]Theme, 0, len(themes))
	for _, t := range themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
