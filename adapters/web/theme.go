// Package web builds the page models behind the editor, preview and share
// views and owns their templates.
package web

// Theme is the palette every page model carries into its template.
type Theme struct {
	Primary      string
	PrimaryHover string
	PrimarySoft  string
	Background   string
	Surface      string
	Text         string
	Muted        string
	Border       string
	Error        string
	Dark         string
	FontFamily   string
}

func DefaultTheme() Theme {
	return Theme{
		Primary:      "#633CFF",
		PrimaryHover: "#BEADFF",
		PrimarySoft:  "#EFEBFF",
		Background:   "#FAFAFA",
		Surface:      "#FFFFFF",
		Text:         "#333333",
		Muted:        "#737373",
		Border:       "#D9D9D9",
		Error:        "#FF3939",
		Dark:         "#333333",
		FontFamily:   "Instrument Sans, system-ui, sans-serif",
	}
}
