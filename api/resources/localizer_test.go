package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLocalizerEnglish(t *testing.T) {
	l := NewLocalizer("en-US")

	assert.Equal(t, language.English, l.Language())
	assert.Equal(t, "Input device", l.String(ProfileHID))
	assert.Equal(t, "Use for input", l.String(HIDSummaryUseFor))
}

func TestLocalizerGerman(t *testing.T) {
	l := NewLocalizer("de-DE")

	assert.Equal(t, language.German, l.Language())
	assert.Equal(t, "Verbunden", l.String(StateConnected))
}

func TestLocalizerFallback(t *testing.T) {
	for _, locale := range []string{"", "fr", "not a locale"} {
		l := NewLocalizer(locale)
		assert.Equal(t, DefaultLanguage, l.Language(), locale)
		assert.Equal(t, "Disconnected", l.String(StateDisconnected), locale)
	}
}

func TestLocalizerUnknownID(t *testing.T) {
	assert.Equal(t, "no_such_string", NewLocalizer("en").String(ID("no_such_string")))
}

func TestTranslationsComplete(t *testing.T) {
	english := translations[language.English]
	for tag, messages := range translations {
		assert.Len(t, messages, len(english), tag.String())
		for id := range english {
			assert.Contains(t, messages, id, tag.String())
		}
	}
}
