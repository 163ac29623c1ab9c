package i18n

import (
	"embed"
	"log"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"surveybot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.ru.toml", "active.en.toml"}

var _ output.T = (*Translator)(nil)

// Translator wraps a go-i18n bundle loaded from the embedded active.*.toml files.
// Localizers are built once per requested locale.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	localizers      sync.Map // locale -> *i18n.Localizer
}

// NewTranslator builds a Translator whose fallback language is defaultLocale
// (Russian when it does not parse).
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Russian
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("⚠️ i18n: chargement de %s impossible: %v", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// T renders key for locale, falling back to the default locale and then to the key.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("⚠️ i18n: clé introuvable (key=%s, locale=%s): %v", key, locale, err)
		return key
	}
	return msg
}

// Languages lists the locales that have a message file loaded.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	if l, ok := t.localizers.Load(locale); ok {
		return l.(*i18n.Localizer)
	}
	languages := make([]string, 0, 2)
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())
	l, _ := t.localizers.LoadOrStore(locale, i18n.NewLocalizer(t.bundle, languages...))
	return l.(*i18n.Localizer)
}
