// Package i18n renders interface strings from the embedded locale bundle.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Message ids shared by the state, tasks and API layers.
const (
	MsgSuccess      = "SUCCESS"
	MsgNetworkError = "ERR_NETWORK"
	MsgInvalidURL   = "URL_VALIDATION_ERROR"
	MsgDuplicateURL = "VALUE_DUPLICATE_ERROR"
	MsgRequired     = "REQUIRED_VALIDATION_ERROR"
	MsgNoData       = "URL_NO_DATA_VALIDATION_ERROR"
)

//go:embed locales/*.yml
var localesFS embed.FS

type Translator struct {
	supported []language.Tag
	matcher   language.Matcher
	printers  map[string]*message.Printer
	keys      map[string]struct{}
}

// New loads the embedded bundle. The default language comes first in the matcher.
func New(defaultLang string) (*Translator, error) {
	return NewFromFS(localesFS, "locales", defaultLang)
}

func NewFromFS(fsys fs.FS, dir string, defaultLang string) (*Translator, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find locale files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no locale files found in %s", dir)
	}
	sort.Strings(files)

	builder := catalog.NewBuilder()
	keys := make(map[string]struct{})
	var tags []language.Tag

	for _, file := range files {
		tag, err := language.Parse(strings.TrimSuffix(path.Base(file), ".yml"))
		if err != nil {
			return nil, fmt.Errorf("invalid locale file name %s: %w", file, err)
		}

		messages, err := loadBundle(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		for key, msg := range messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("failed to register %s/%s: %w", tag, key, err)
			}
			keys[key] = struct{}{}
		}
		tags = append(tags, tag)
	}

	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLang, err)
	}
	tags = moveFirst(tags, def)

	printers := make(map[string]*message.Printer, len(tags))
	for _, tag := range tags {
		printers[tag.String()] = message.NewPrinter(tag, message.Catalog(builder))
	}

	return &Translator{
		supported: tags,
		matcher:   language.NewMatcher(tags),
		printers:  printers,
		keys:      keys,
	}, nil
}

// T returns the localized text for key. Unknown keys are returned unchanged,
// which lets free-form error text pass through.
func (t *Translator) T(lang, key string) string {
	if _, ok := t.keys[key]; !ok {
		return key
	}
	p, ok := t.printers[lang]
	if !ok {
		p = t.printers[t.supported[0].String()]
	}
	return p.Sprintf(key)
}

// Match picks the best supported language for the given preferences, which may
// be plain tags or Accept-Language header values. Earlier preferences win.
func (t *Translator) Match(preferred ...string) string {
	for _, pref := range preferred {
		if pref == "" {
			continue
		}
		desired, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(desired) == 0 {
			continue
		}
		_, idx, confidence := t.matcher.Match(desired...)
		if confidence != language.No {
			return t.supported[idx].String()
		}
	}
	return t.supported[0].String()
}

func (t *Translator) Supports(lang string) bool {
	_, ok := t.printers[lang]
	return ok
}

func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.supported))
	for _, tag := range t.supported {
		langs = append(langs, tag.String())
	}
	return langs
}

func loadBundle(fsys fs.FS, file string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return messages, nil
}

func moveFirst(tags []language.Tag, first language.Tag) []language.Tag {
	ordered := make([]language.Tag, 0, len(tags))
	for _, tag := range tags {
		if tag == first {
			ordered = append(ordered, tag)
		}
	}
	for _, tag := range tags {
		if tag != first {
			ordered = append(ordered, tag)
		}
	}
	return ordered
}
