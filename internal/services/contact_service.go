package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/models"
)

// ContactService provides business logic for contact management
type ContactService struct {
	repo db.ContactRepository
}

// NewContactService creates a new ContactService instance
func NewContactService(repo db.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// CreateContact creates a contact for ownerID. A duplicate phone or email is
// a conflict, never a silent merge.
func (s *ContactService) CreateContact(ownerID string, req *models.CreateContactRequest) (*models.Contact, error) {
	if strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	contact := &models.Contact{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Info:      req.Info,
		CreatedBy: ownerID,
	}

	if err := s.repo.Create(contact); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: contact with phone %s", ErrConflict, contact.Phone)
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

// GetContact retrieves one of the owner's contacts
func (s *ContactService) GetContact(id, ownerID string) (*models.Contact, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: contact ID is required", ErrValidation)
	}

	contact, err := s.repo.GetByID(id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, fmt.Errorf("%w: contact %s", ErrNotFound, id)
	}

	return contact, nil
}

// UpdateContact applies a partial update to one of the owner's contacts
func (s *ContactService) UpdateContact(id, ownerID string, req *models.UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.GetContact(id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		contact.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		contact.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return nil, fmt.Errorf("%w: phone cannot be empty", ErrValidation)
		}
		contact.Phone = phone
	}
	if req.Info != nil {
		contact.Info = *req.Info
	}

	if err := s.repo.Update(contact); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: contact with phone %s", ErrConflict, contact.Phone)
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return contact, nil
}

// DeleteContact deletes one of the owner's contacts. Recipient logs that
// reference it keep their rows with the contact link cleared.
func (s *ContactService) DeleteContact(id, ownerID string) error {
	if _, err := s.GetContact(id, ownerID); err != nil {
		return err
	}

	if err := s.repo.Delete(id, ownerID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// ListContacts retrieves all of the owner's contacts
func (s *ContactService) ListContacts(ownerID string) ([]*models.Contact, error) {
	contacts, err := s.repo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}
