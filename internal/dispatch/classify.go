package dispatch

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var urlValidator = validator.New()

// isURL reports whether prompt is a single absolute http(s) URL.
func isURL(prompt string) bool {
	if prompt == "" || strings.ContainsAny(prompt, " \t\r\n") {
		return false
	}
	return urlValidator.Var(prompt, "required,http_url") == nil
}
