package services

import (
	"fmt"
	"strings"

	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/models"
)

// NormalizeRecipients turns raw recipient input into an ordered, deduplicated
// list of trimmed identifiers. raw is either a list of identifiers or a single
// string. A string is split on exactly one delimiter kind, the first of
// comma, semicolon, whitespace, newline found in it; mixed-delimiter input is
// deliberately not supported. A list is only trimmed, never re-split.
func NormalizeRecipients(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("%w: recipients are required", ErrValidation)
	case string:
		return dedupe(splitRecipients(v)), nil
	case []string:
		return dedupe(v), nil
	case []interface{}:
		// JSON arrays decode to []interface{}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: recipients must be strings", ErrValidation)
			}
			parts = append(parts, s)
		}
		return dedupe(parts), nil
	default:
		return nil, fmt.Errorf("%w: recipients must be a string or a list", ErrValidation)
	}
}

func splitRecipients(s string) []string {
	trimmed := strings.TrimSpace(s)
	switch {
	case strings.Contains(trimmed, ","):
		return strings.Split(trimmed, ",")
	case strings.Contains(trimmed, ";"):
		return strings.Split(trimmed, ";")
	case strings.ContainsAny(trimmed, " \t"):
		return strings.Fields(trimmed)
	case strings.Contains(trimmed, "\n"):
		return strings.Split(trimmed, "\n")
	default:
		return []string{trimmed}
	}
}

// dedupe trims every identifier, drops empties and keeps the first occurrence
// of each identifier in order
func dedupe(identifiers []string) []string {
	seen := make(map[string]struct{}, len(identifiers))
	result := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// ContactResolver resolves phone identifiers to the owner's contacts,
// creating bare contacts on demand
type ContactResolver struct {
	contacts db.ContactRepository
}

// NewContactResolver creates a new ContactResolver
func NewContactResolver(contacts db.ContactRepository) *ContactResolver {
	return &ContactResolver{contacts: contacts}
}

// ResolveOrCreate maps each identifier to the owner's contact with that phone
// number, creating one with phone only when none exists. Repeated calls with
// the same identifiers never create extra contacts; a lost create race falls
// back to the winner's row.
func (r *ContactResolver) ResolveOrCreate(identifiers []string, ownerID string) (map[string]*models.Contact, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}

	resolved := make(map[string]*models.Contact, len(identifiers))
	for _, identifier := range identifiers {
		contact, _, err := r.contacts.GetOrCreate(identifier, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve contact %s: %w", identifier, err)
		}
		resolved[identifier] = contact
	}
	return resolved, nil
}
