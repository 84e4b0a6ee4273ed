package serrors

import "fmt"

// Base is a coded error. Code is a stable machine-readable identifier,
// Message is a developer-facing default, LocaleKey (optional) points at a
// message in the i18n catalogs for user-facing rendering.
type Base struct {
	Code      string
	Message   string
	LocaleKey string
}

func NewError(code, message, localeKey string) *Base {
	return &Base{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Base) WithMessage(message string) *Base {
	return &Base{
		Code:      e.Code,
		Message:   message,
		LocaleKey: e.LocaleKey,
	}
}
