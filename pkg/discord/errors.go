package discord

import (
	"errors"
	"strings"

	"surveybot/internal/domain"
	"surveybot/internal/ports/output"
)

// DomainErrorMessage resolves err to a user-facing message through the "errors.<code>"
// keys. Errors without a code render as errors.internal.
func DomainErrorMessage(t output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	code := domain.Code(err)
	if code == "" {
		code = "internal"
	}
	msg := t.T(locale, "errors."+code, nil)

	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Allowed) > 0 {
		msg += "\n" + t.T(locale, "flow.allowed", map[string]any{"Allowed": strings.Join(verr.Allowed, ", ")})
	}
	return msg
}
