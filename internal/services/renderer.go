package services

import (
	"strings"

	"github.com/juliusmarkwei/swift-send/internal/models"
)

// Placeholder tokens recognized literally in template bodies
const (
	TokenFullName = "<full_name>"
	TokenEmail    = "<email>"
	TokenPhone    = "<phone>"
	TokenInfo     = "<info>"
)

// Render substitutes every occurrence of each placeholder token with the
// contact's corresponding attribute. Replacement is literal substring
// replacement, not pattern matching; an empty attribute replaces its token
// with the empty string. Unrecognized text is left untouched and the function
// never fails.
func Render(body string, contact *models.Contact) string {
	if contact == nil {
		return body
	}

	replacer := strings.NewReplacer(
		TokenFullName, contact.FullName,
		TokenEmail, contact.Email,
		TokenPhone, contact.Phone,
		TokenInfo, contact.Info,
	)
	return replacer.Replace(body)
}
