// Package markdown converts articles to and from standalone markdown
// documents with YAML front matter, the interchange format used by the
// export workflow and by external editors.
package markdown

import (
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-publish/internal/article"
)

// EmptyBodyPlaceholder replaces the body of exported documents whose content
// could not be recovered, so the file is still valid and visibly flagged.
const EmptyBodyPlaceholder = "*[El contenido del artículo está vacío o no se pudo extraer.]*"

// Meta is the front matter block of an article document.
type Meta struct {
	Title    string  `yaml:"title"`
	Category string  `yaml:"category"`
	Tags     TagList `yaml:"tags"`
	Date     string  `yaml:"date"`
}

// TagList unmarshals either a YAML sequence or a comma-separated scalar.
// Hand-edited documents tend to use the scalar form.
//
// The callback-style UnmarshalYAML is the form the frontmatter parser's
// yaml.v2 decoder invokes; yaml.v3 honors it as well.
type TagList []string

func (t *TagList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var tags []string
	if err := unmarshal(&tags); err == nil {
		*t = cleanTags(tags)
		return nil
	}

	var scalar string
	if err := unmarshal(&scalar); err != nil {
		return fmt.Errorf("markdown: tags must be a list or a comma-separated string")
	}
	*t = cleanTags(strings.Split(scalar, ","))
	return nil
}

func cleanTags(raw []string) []string {
	var tags []string
	for _, tag := range raw {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// WriteDocument serializes an article as a markdown document with YAML front
// matter. An empty body is replaced with a visible placeholder.
func WriteDocument(art *article.Article) (string, error) {
	meta := Meta{
		Title:    art.Title,
		Category: art.Category,
		Tags:     TagList(art.Tags),
		Date:     art.Created,
	}
	encoded, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("markdown: encode front matter %s: %w", art.ID, err)
	}

	body := strings.TrimSpace(art.Content)
	if body == "" {
		body = EmptyBodyPlaceholder
	}

	var doc strings.Builder
	doc.WriteString("---\n")
	doc.Write(encoded)
	doc.WriteString("---\n\n")
	doc.WriteString(body)
	doc.WriteString("\n")
	return doc.String(), nil
}

// ReadDocument parses a markdown document back into an article draft. The id
// is derived from the title by the caller; only document-borne fields are
// filled in.
func ReadDocument(doc string) (*article.Article, error) {
	var meta Meta
	body, err := frontmatter.MustParse(strings.NewReader(doc), &meta)
	if err != nil {
		return nil, fmt.Errorf("markdown: parse front matter: %w", err)
	}

	return &article.Article{
		Title:    meta.Title,
		Category: meta.Category,
		Tags:     []string(meta.Tags),
		Created:  meta.Date,
		Content:  strings.TrimSpace(string(body)),
	}, nil
}
