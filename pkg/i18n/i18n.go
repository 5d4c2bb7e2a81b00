package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var (
	once   sync.Once
	mu     sync.RWMutex
	bundle *goi18n.Bundle
	// fallback is appended to every lookup after the caller's languages.
	fallback string
)

// Init creates the bundle with English as the fallback and registers the
// embedded locale files. Safe to call more than once.
func Init() {
	once.Do(build)
}

func build() {
	mu.Lock()
	defer mu.Unlock()

	bundle = goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return
	}
	for _, e := range entries {
		data, err := locales.ReadFile("locales/" + e.Name())
		if err != nil {
			continue
		}
		_, _ = bundle.ParseMessageFileBytes(data, e.Name())
	}
}

// Load adds an extra message file from disk, e.g. a locale shipped next to
// the binary.
func Load(path string) error {
	Init()
	mu.Lock()
	defer mu.Unlock()
	_, err := bundle.LoadMessageFile(path)
	return err
}

// SetDefault makes lang the preferred language when a request names none
// that has messages.
func SetDefault(lang string) {
	mu.Lock()
	fallback = lang
	mu.Unlock()
}

// T localizes messageID for the first matching language in langs (BCP 47
// tags or an Accept-Language header value). Unknown IDs come back as-is.
func T(messageID string, data map[string]any, langs ...string) string {
	Init()
	mu.RLock()
	b := bundle
	if fallback != "" {
		langs = append(langs[:len(langs):len(langs)], fallback)
	}
	mu.RUnlock()

	localizer := goi18n.NewLocalizer(b, langs...)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// Supported lists the languages with a registered message file.
func Supported() []language.Tag {
	Init()
	mu.RLock()
	defer mu.RUnlock()
	return bundle.LanguageTags()
}
