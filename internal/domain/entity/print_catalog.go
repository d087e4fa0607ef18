package entity

import "strings"

// Blueprint is a print-on-demand catalog product type
type Blueprint struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Images      []string `json:"images"`
}

// Matches reports whether the title or brand contains the search text, ignoring case
func (b Blueprint) Matches(search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), search) ||
		strings.Contains(strings.ToLower(b.Brand), search)
}

// PrintProvider prints a blueprint
type PrintProvider struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// CatalogVariant is one size/colour combination of a blueprint at a print provider
type CatalogVariant struct {
	ID      int64             `json:"id"`
	Title   string            `json:"title"`
	Options map[string]string `json:"options"`
}

// Shop is a storefront connected to the print provider account
type Shop struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	SalesChannel string `json:"sales_channel"`
}
