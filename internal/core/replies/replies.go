// Package replies loads the canned reply book: the ordered keyword table, the per-pipeline
// greeting templates and the persona for the generative fallback
package replies

import (
	_ "embed"
	"os"
	"strings"

	"mbot/internal/core/keyword"
	perr "mbot/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed replies.yaml
var embedded []byte

// UserPlaceholder is substituted with the username in greeting templates
const UserPlaceholder = "{user}"

type rawBook struct {
	Keywords  []keyword.Entry   `yaml:"keywords"`
	Greetings map[string]string `yaml:"greetings"`
	Persona   string            `yaml:"persona"`
}

// Book is a compiled reply book. Immutable after Load
type Book struct {
	Keywords  *keyword.Table
	Persona   string
	greetings map[string]string
}

// Load reads the reply book from path, or the embedded default when path is empty
func Load(path string) (*Book, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(embedded)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read replies file %s", path), "REPLIES_FILE")
	}
	return Parse(b)
}

// Default returns the embedded reply book; it is known good so errors panic
func Default() *Book {
	b, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return b
}

// Parse compiles a YAML reply book
func Parse(b []byte) (*Book, error) {
	var raw rawBook
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse replies")
	}
	tbl, err := keyword.New(raw.Keywords)
	if err != nil {
		return nil, perr.WithOp(err, "replies.Parse")
	}
	g := make(map[string]string, len(raw.Greetings))
	for k, v := range raw.Greetings {
		if strings.TrimSpace(v) == "" {
			return nil, perr.WithField(perr.InvalidArgf("greeting %q is empty", k), "greetings")
		}
		g[k] = v
	}
	return &Book{
		Keywords:  tbl,
		Persona:   strings.TrimSpace(raw.Persona),
		greetings: g,
	}, nil
}

// Greeting returns the greeting template configured for a pipeline
func (b *Book) Greeting(pipeline string) (string, bool) {
	t, ok := b.greetings[pipeline]
	return t, ok
}

// Render fills every {user} in tmpl with user
func Render(tmpl, user string) string {
	return strings.ReplaceAll(tmpl, UserPlaceholder, user)
}
