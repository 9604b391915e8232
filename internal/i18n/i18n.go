// Package i18n provides the translated strings of the setup wizard.
//
// Translations live in embedded YAML files under locales/, one per language
// (en.yaml, de.yaml). Lookups fall back to English and then to the message
// ID itself, so a missing translation never blanks a label.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/muurk/trackersetup/internal/logging"
)

// DefaultLang is used when no language is configured
const DefaultLang = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

// Localizer translates message IDs. The TUI depends on this interface so
// tests can substitute a fixed table.
type Localizer interface {
	T(messageID string) string
	Tf(messageID string, data map[string]any) string
}

// Catalog is a Localizer backed by the embedded locale files
type Catalog struct {
	lang      string
	localizer *i18n.Localizer
}

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
	available  []string
)

func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

		files, err := fs.ReadDir(localeFS, "locales")
		if err != nil {
			bundleErr = fmt.Errorf("failed to read embedded locales: %w", err)
			return
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile(path.Join("locales", f.Name()))
			if err != nil {
				bundleErr = fmt.Errorf("failed to read locale %s: %w", f.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
				bundleErr = fmt.Errorf("failed to parse locale %s: %w", f.Name(), err)
				return
			}
			available = append(available, strings.TrimSuffix(f.Name(), path.Ext(f.Name())))
		}
		sort.Strings(available)
		bundle = b
	})
	return bundle, bundleErr
}

// New creates a Catalog for the given language tag (e.g. "de", "en-GB").
// Unknown languages resolve to English.
func New(lang string) (*Catalog, error) {
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = DefaultLang
	}
	return &Catalog{
		lang:      lang,
		localizer: i18n.NewLocalizer(b, lang, DefaultLang),
	}, nil
}

// Lang returns the language the catalog was created for
func (c *Catalog) Lang() string {
	return c.lang
}

// T translates a message by its ID. If no translation exists, the ID is returned.
func (c *Catalog) T(messageID string) string {
	return c.Tf(messageID, nil)
}

// Tf translates a message and executes it as a template with data
func (c *Catalog) Tf(messageID string, data map[string]any) string {
	if c == nil || c.localizer == nil {
		return messageID
	}
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		logging.Debug("Missing translation",
			zap.String("lang", c.lang),
			zap.String("id", messageID),
		)
		return messageID
	}
	return msg
}

// Available lists the embedded languages
func Available() []string {
	if _, err := loadBundle(); err != nil {
		return nil
	}
	return append([]string(nil), available...)
}

// IsAvailable reports whether lang (or its base language) has a locale file
func IsAvailable(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	for _, l := range Available() {
		if l == lang || l == base.String() {
			return true
		}
	}
	return false
}

var (
	mu      sync.RWMutex
	current *Catalog
)

// Init sets the process-wide catalog used by T
func Init(lang string) error {
	c, err := New(lang)
	if err != nil {
		return err
	}
	mu.Lock()
	current = c
	mu.Unlock()
	return nil
}

// Default returns the process-wide catalog, initializing English if needed
func Default() *Catalog {
	mu.RLock()
	c := current
	mu.RUnlock()
	if c != nil {
		return c
	}
	if err := Init(DefaultLang); err != nil {
		return &Catalog{lang: DefaultLang}
	}
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T translates a message with the process-wide catalog
func T(messageID string) string {
	return Default().T(messageID)
}

// Tf translates a templated message with the process-wide catalog
func Tf(messageID string, data map[string]any) string {
	return Default().Tf(messageID, data)
}

// Lines translates a message and splits it into display lines
func Lines(l Localizer, messageID string) []string {
	return strings.Split(l.T(messageID), "\n")
}
