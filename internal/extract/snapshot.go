package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/render"
)

// snapshotSchema is the structural contract an embedded snapshot must meet
// before the lossless path trusts it. Anything less falls through to the
// legacy parser instead of surfacing a hard failure.
const snapshotSchema = `{
    "type": "object",
    "properties": {
        "id": {"type": "string"},
        "title": {"type": "string", "minLength": 1},
        "subtitle": {"type": "string"},
        "category": {"type": "string", "minLength": 1},
        "content": {"type": "string", "minLength": 1},
        "tags": {"type": "array", "items": {"type": "string"}},
        "author": {"type": "string"},
        "created": {"type": "string"},
        "modified": {"type": "string"},
        "published": {"type": "boolean"}
    },
    "required": ["title", "category", "content"]
}`

var snapshotValidator = mustCompileSchema(snapshotSchema)

func mustCompileSchema(source string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("snapshot.json", strings.NewReader(source)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("snapshot.json")
}

var snapshotBlockPattern = regexp.MustCompile(
	`(?is)<script\s+type="application/json"\s+id="` + render.SnapshotElementID + `">(.*?)</script>`)

// fromSnapshot attempts the lossless path: locate the embedded structured
// block, check it against the snapshot schema, and decode it. It returns
// nil when the block is absent or malformed; the caller then falls back to
// legacy parsing.
func fromSnapshot(page, filename string) *article.Article {
	match := snapshotBlockPattern.FindStringSubmatch(page)
	if match == nil {
		return nil
	}
	raw := strings.TrimSpace(match[1])

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	if err := snapshotValidator.Validate(payload); err != nil {
		return nil
	}

	art := &article.Article{}
	if err := json.Unmarshal([]byte(raw), art); err != nil {
		return nil
	}

	// The remote copy exists by definition when we are reading it back.
	art.Published = true
	if art.ID == "" {
		art.ID = idFromFilename(filename)
	}
	return art
}

func idFromFilename(filename string) string {
	id := strings.TrimSuffix(filename, ".html")
	if article.IsValidID(id) {
		return id
	}
	derived, err := article.DeriveID(id)
	if err != nil {
		return ""
	}
	return derived
}
