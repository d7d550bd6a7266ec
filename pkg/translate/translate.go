// Package translate formats user-facing messages for the current locale.
package translate

import (
	"log/slog"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		slog.Debug("sim8085: locale", "err", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf() key in the current locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// SetLanguage switches the printer, e.g. for tests or a --lang flag.
func SetLanguage(tag language.Tag) {
	printer = message.NewPrinter(tag)
}
