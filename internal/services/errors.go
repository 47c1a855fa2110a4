package services

import "errors"

var (
	// ErrValidation indicates caller input is missing or empty
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced record does not exist or is not
	// owned by the caller
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness conflict, e.g. duplicate contact
	// phone or template name
	ErrConflict = errors.New("already exists")

	// ErrNoRecipients indicates a dispatch has no reachable contacts left
	ErrNoRecipients = errors.New("no recipients available")

	// ErrNotAssociated indicates a disassociation referenced a contact that
	// is not linked to the template
	ErrNotAssociated = errors.New("contact not associated with template")
)
