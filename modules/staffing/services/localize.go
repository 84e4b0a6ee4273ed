package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/talentops/staffmatch/pkg/intl"
)

// localize renders a catalog message with the request's localizer. Outside a
// request (tests, jobs) it falls back to the given default text, expanding
// {{.Name}} placeholders so messages stay readable either way.
func localize(ctx context.Context, messageID, fallback string, data map[string]interface{}) string {
	if localizer, ok := intl.UseLocalizer(ctx); ok {
		msg, err := localizer.Localize(&i18n.LocalizeConfig{
			MessageID:    messageID,
			TemplateData: data,
		})
		if err == nil {
			return msg
		}
	}
	out := fallback
	for key, value := range data {
		out = strings.ReplaceAll(out, "{{."+key+"}}", fmt.Sprint(value))
	}
	return out
}
