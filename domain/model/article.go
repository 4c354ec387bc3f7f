package model

import "time"

// Article is the read-only view of a CMS article used for share content
// resolution. Title and Excerpt are keyed by language code.
type Article struct {
	ID        int64             `json:"id"`
	Slug      string            `json:"slug"`
	Title     map[string]string `json:"title"`
	Excerpt   map[string]string `json:"excerpt"`
	Published bool              `json:"published"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Localized picks the first non-empty value following the given language
// fallback order.
func Localized(values map[string]string, languages []string) string {
	for _, lang := range languages {
		if v := values[lang]; v != "" {
			return v
		}
	}
	return ""
}
