package article

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateForPublish checks that every field the publish workflows require is
// present: title, subtitle, category (from the fixed set), content, and at
// least one tag. It returns a *ValidationError naming every failing field so
// the workflow can report the complete list before any network I/O.
func ValidateForPublish(a *Article) error {
	errs := validation.Errors{}
	var missing []string
	categoryInvalid := false

	if strings.TrimSpace(a.Title) == "" {
		errs["title"] = validation.NewError("publish.article.title_required", "title is required")
		missing = append(missing, "title")
	}
	if strings.TrimSpace(a.Subtitle) == "" {
		errs["subtitle"] = validation.NewError("publish.article.subtitle_required", "subtitle is required")
		missing = append(missing, "subtitle")
	}
	switch {
	case strings.TrimSpace(a.Category) == "":
		errs["category"] = validation.NewError("publish.article.category_required", "category is required")
		missing = append(missing, "category")
	case !IsValidCategory(a.Category):
		errs["category"] = validation.NewError("publish.article.category_invalid", "category is not part of the fixed set")
		missing = append(missing, "category")
		categoryInvalid = true
	}
	if strings.TrimSpace(a.Content) == "" {
		errs["content"] = validation.NewError("publish.article.content_required", "content is required")
		missing = append(missing, "content")
	}
	if len(nonEmptyTags(a.Tags)) == 0 {
		errs["tags"] = validation.NewError("publish.article.tags_required", "at least one tag is required")
		missing = append(missing, "tags")
	}

	if len(errs) == 0 {
		return nil
	}
	cause := error(errs)
	if categoryInvalid {
		cause = fmt.Errorf("%w: %w", ErrCategoryInvalid, errs)
	}
	return &ValidationError{Missing: missing, cause: cause}
}

// NormalizeTags trims whitespace and drops empty entries while preserving the
// display order the author typed. Tag order is insignificant for identity but
// significant for rendering.
func NormalizeTags(tags []string) []string {
	return nonEmptyTags(tags)
}

func nonEmptyTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
