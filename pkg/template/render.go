package template

import "strings"

// Placeholder is the substitution token recognized in template bodies. The
// token text (typo included) matches the production templates and must not
// be corrected independently of them.
const Placeholder = "[insert-iolations-here]"

// Render substitutes the event message for the placeholder token. This is a
// literal replacement with no escaping; a template without the token is
// returned unchanged.
func Render(body, message string) string {
	return strings.ReplaceAll(body, Placeholder, message)
}
