package article

import (
	"strings"
	"time"
)

// TimeFormat is the minute-resolution timestamp layout shared by record
// files, index entries, and embedded page snapshots. The layout sorts
// lexicographically, which the listing page relies on.
const TimeFormat = "2006-01-02 15:04"

// Article is the structured content unit managed by the publishing pipeline.
// JSON tags define the durable record shape; the index file and the embedded
// page snapshot reuse the same field names so identifier joins stay stable.
type Article struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle"`
	Category  string   `json:"category"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Author    string   `json:"author"`
	Created   string   `json:"created"`
	Modified  string   `json:"modified"`
	Published bool     `json:"published"`
}

// IndexEntry is the denormalized projection kept in the listing file so
// enumeration never has to load full records.
type IndexEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Created   string `json:"created"`
	Published bool   `json:"published"`
}

// Project returns the article's index projection.
func (a *Article) Project() IndexEntry {
	return IndexEntry{
		ID:        a.ID,
		Title:     a.Title,
		Category:  a.Category,
		Created:   a.Created,
		Published: a.Published,
	}
}

// Clone returns a deep copy so callers can hand articles across goroutines
// without sharing the tags slice.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Tags = append([]string(nil), a.Tags...)
	return &clone
}

// Stamp formats t with minute resolution.
func Stamp(t time.Time) string {
	return t.Format(TimeFormat)
}

// ParseStamp parses a minute-resolution timestamp produced by Stamp.
func ParseStamp(value string) (time.Time, error) {
	return time.Parse(TimeFormat, strings.TrimSpace(value))
}

// categories is the fixed category enumeration. Kept in display order.
var categories = []string{
	"TECNOLOGÍA",
	"VIDEOJUEGOS",
	"MÚSICA",
	"CINE",
	"INTERNET",
	"HARDWARE",
	"SOFTWARE",
	"CULTURA",
	"GESTIÓN DE INCIDENTES DE SEGURIDAD",
}

// Categories returns the fixed category set in display order.
func Categories() []string {
	return append([]string(nil), categories...)
}

// IsValidCategory reports whether the value belongs to the fixed category
// enumeration. Comparison is case-insensitive; categories are stored in
// their canonical uppercase form.
func IsValidCategory(value string) bool {
	return CanonicalCategory(value) != ""
}

// CanonicalCategory maps a case-insensitive match to the canonical category
// value, or returns "" when the value is not part of the enumeration.
func CanonicalCategory(value string) string {
	needle := strings.ToUpper(strings.TrimSpace(value))
	for _, category := range categories {
		if strings.ToUpper(category) == needle {
			return category
		}
	}
	return ""
}
