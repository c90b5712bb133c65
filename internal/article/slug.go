package article

import (
	"errors"
	"strings"

	"github.com/goliatone/go-slug"
)

// SlugNormalizer exposes the slug normalizer interface.
type SlugNormalizer = slug.Normalizer

// DeriveID derives the stable article identifier from a title: lower-cased,
// accents stripped, non-alphanumeric runs collapsed to a single separator,
// leading and trailing separators trimmed. The identifier is assigned once
// and never recomputed on update.
func DeriveID(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}

	// HashNormalize transliterates accented letters through the charmap
	// (í→i, ñ→n); Normalize then strips the punctuation the charmap keeps
	// (¡, commas) and collapses separator runs.
	transliterated, err := slug.HashNormalize(trimmed)
	if err != nil {
		return "", err
	}
	id, err := slug.Normalize(transliterated)
	if err != nil {
		if errors.Is(err, slug.ErrEmptySlug) {
			return "", ErrIDEmpty
		}
		return "", err
	}
	return id, nil
}

// IsValidID reports whether the value satisfies the slug rules used by
// DeriveID. Imported identifiers taken from remote filenames go through this
// check before they are trusted.
func IsValidID(value string) bool {
	return slug.IsValid(value)
}
