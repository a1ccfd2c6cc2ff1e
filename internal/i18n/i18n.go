// Package i18n holds the message catalogs for coach pages.
package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the catalog languages; the first is the fallback
var Supported = []language.Tag{language.English, language.Spanish}

var (
	matcher = language.NewMatcher(Supported)
	cat     = buildCatalog()
)

// Localizer formats catalog messages for one language
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a localizer for tag, which must be one of Supported
func New(tag language.Tag) *Localizer {
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// ForRequest picks the best supported language for an Accept-Language header.
// fallback (a BCP 47 code) wins when the header is missing or unparseable.
func ForRequest(acceptLanguage, fallback string) *Localizer {
	var preferred []language.Tag
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
		preferred = tags
	}
	if len(preferred) == 0 {
		if tag, err := language.Parse(fallback); err == nil {
			preferred = []language.Tag{tag}
		}
	}
	_, index, _ := matcher.Match(preferred...)
	return New(Supported[index])
}

// Tag is the localizer's language
func (l *Localizer) Tag() language.Tag { return l.tag }

// Lang is the BCP 47 code for the html lang attribute
func (l *Localizer) Lang() string { return l.tag.String() }

// T formats the message stored under key. Unknown keys are printed as-is.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

type entry struct {
	key string
	msg catalog.Message
}

func str(key, msg string) entry { return entry{key, catalog.String(msg)} }

// count builds a singular/plural message over the first argument
func count(key, one, other string) entry {
	return entry{key, plural.Selectf(1, "%d", plural.One, one, plural.Other, other)}
}

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range messages {
		for _, e := range entries {
			if err := b.Set(tag, e.key, e.msg); err != nil {
				panic("i18n: " + e.key + ": " + err.Error())
			}
		}
	}
	return b
}
