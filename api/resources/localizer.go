package resources

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used when a requested locale has no translations.
var DefaultLanguage = language.English

var translations = map[language.Tag]map[ID]string{
	language.English: {
		ProfileHID:          "Input device",
		HIDSummaryUseFor:    "Use for input",
		HIDSummaryConnected: "Connected to input device",
		StateConnected:      "Connected",
		StateConnecting:     "Connecting…",
		StateDisconnected:   "Disconnected",
		StateDisconnecting:  "Disconnecting…",
	},
	language.German: {
		ProfileHID:          "Eingabegerät",
		HIDSummaryUseFor:    "Für Eingabe verwenden",
		HIDSummaryConnected: "Mit Eingabegerät verbunden",
		StateConnected:      "Verbunden",
		StateConnecting:     "Verbindung wird hergestellt…",
		StateDisconnected:   "Getrennt",
		StateDisconnecting:  "Verbindung wird getrennt…",
	},
}

var stringCatalog = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))

	for tag, messages := range translations {
		for id, msg := range messages {
			if err := b.SetString(tag, id.String(), msg); err != nil {
				panic(err)
			}
		}
	}

	return b
}

// Localizer renders string resources for a single language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer returns a Localizer for the locale, for example "de" or "en-US".
// Unknown or unsupported locales use DefaultLanguage.
func NewLocalizer(locale string) *Localizer {
	tag := matchLanguage(locale)

	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(stringCatalog)),
	}
}

// Language returns the language the Localizer renders strings in.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// String renders the resource. IDs without a translation are returned verbatim.
func (l *Localizer) String(id ID) string {
	return l.printer.Sprintf(message.Key(id.String(), id.String()))
}

func matchLanguage(locale string) language.Tag {
	requested, err := language.Parse(locale)
	if err != nil {
		return DefaultLanguage
	}

	base, _ := requested.Base()
	for tag := range translations {
		if b, _ := tag.Base(); b == base {
			return tag
		}
	}

	return DefaultLanguage
}
