package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/pkg/logger"

	"go.uber.org/zap"
)

// AssociationResult itemizes the outcome of a multi-contact association call.
// Every identifier lands in exactly one bucket; none of the buckets is an
// error by itself.
type AssociationResult struct {
	Added             []string `json:"added"`
	AlreadyAssociated []string `json:"already_associated"`
	Unresolved        []string `json:"unresolved"`
}

// TemplateService provides business logic for templates and their contact
// associations
type TemplateService struct {
	templates db.TemplateRepository
	contacts  db.ContactRepository
}

// NewTemplateService creates a new TemplateService instance
func NewTemplateService(templates db.TemplateRepository, contacts db.ContactRepository) *TemplateService {
	return &TemplateService{templates: templates, contacts: contacts}
}

// CreateTemplate creates a template for ownerID. A duplicate name is a
// conflict.
func (s *TemplateService) CreateTemplate(ownerID string, req *models.CreateTemplateRequest) (*models.Template, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: template content is required", ErrValidation)
	}

	template := &models.Template{
		Name:      strings.TrimSpace(req.Name),
		Content:   req.Content,
		CreatedBy: ownerID,
	}

	if err := s.templates.Create(template); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: template %s", ErrConflict, template.Name)
		}
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return template, nil
}

// GetTemplate retrieves one of the owner's templates
func (s *TemplateService) GetTemplate(id, ownerID string) (*models.Template, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: template ID is required", ErrValidation)
	}

	template, err := s.templates.GetByID(id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, id)
	}

	return template, nil
}

// UpdateTemplate applies a partial update to one of the owner's templates
func (s *TemplateService) UpdateTemplate(id, ownerID string, req *models.UpdateTemplateRequest) (*models.Template, error) {
	template, err := s.GetTemplate(id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: template name cannot be empty", ErrValidation)
		}
		template.Name = name
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, fmt.Errorf("%w: template content cannot be empty", ErrValidation)
		}
		template.Content = *req.Content
	}

	if err := s.templates.Update(template); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: template %s", ErrConflict, template.Name)
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return template, nil
}

// DeleteTemplate deletes one of the owner's templates along with its
// associations
func (s *TemplateService) DeleteTemplate(id, ownerID string) error {
	if _, err := s.GetTemplate(id, ownerID); err != nil {
		return err
	}

	if err := s.templates.Delete(id, ownerID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// ListTemplates retrieves all of the owner's templates
func (s *TemplateService) ListTemplates(ownerID string) ([]*models.Template, error) {
	templates, err := s.templates.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// ListTemplateContacts retrieves the contacts associated with one of the
// owner's templates
func (s *TemplateService) ListTemplateContacts(id, ownerID string) ([]*models.Contact, error) {
	template, err := s.GetTemplate(id, ownerID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.templates.ListContacts(template.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list template contacts: %w", err)
	}
	return contacts, nil
}

// Associate links the identified contacts to the template. Identifiers with
// no matching contact are reported as unresolved rather than auto-created;
// already-linked pairs are reported, never duplicated and never an error.
func (s *TemplateService) Associate(templateID string, rawIdentifiers interface{}, ownerID string) (*AssociationResult, error) {
	template, err := s.GetTemplate(templateID, ownerID)
	if err != nil {
		return nil, err
	}

	identifiers, err := NormalizeRecipients(rawIdentifiers)
	if err != nil {
		return nil, err
	}
	if len(identifiers) == 0 {
		return nil, fmt.Errorf("%w: at least one contact is required", ErrValidation)
	}

	result := &AssociationResult{
		Added:             []string{},
		AlreadyAssociated: []string{},
		Unresolved:        []string{},
	}

	for _, identifier := range identifiers {
		contact, err := s.contacts.GetByPhone(identifier, ownerID)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			result.Unresolved = append(result.Unresolved, identifier)
			continue
		}

		created, err := s.templates.AssociateContact(template.ID, contact.ID)
		if err != nil {
			return nil, err
		}
		if created {
			result.Added = append(result.Added, identifier)
		} else {
			result.AlreadyAssociated = append(result.AlreadyAssociated, identifier)
		}
	}

	logger.Info("Template association processed",
		zap.String("template_id", template.ID),
		zap.Int("added", len(result.Added)),
		zap.Int("already_associated", len(result.AlreadyAssociated)),
		zap.Int("unresolved", len(result.Unresolved)),
	)

	return result, nil
}

// Disassociate removes the links for the identified contacts atomically:
// either every requested removal succeeds or none is committed. The first
// identifier that is not currently linked fails the call with ErrNotAssociated.
func (s *TemplateService) Disassociate(templateID string, rawIdentifiers interface{}, ownerID string) error {
	template, err := s.GetTemplate(templateID, ownerID)
	if err != nil {
		return err
	}

	identifiers, err := NormalizeRecipients(rawIdentifiers)
	if err != nil {
		return err
	}
	if len(identifiers) == 0 {
		return fmt.Errorf("%w: at least one contact is required", ErrValidation)
	}

	contactIDs := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		contact, err := s.contacts.GetByPhone(identifier, ownerID)
		if err != nil {
			return err
		}
		if contact == nil {
			return fmt.Errorf("%w: %s", ErrNotAssociated, identifier)
		}
		contactIDs = append(contactIDs, contact.ID)
	}

	if err := s.templates.DisassociateContacts(template.ID, contactIDs); err != nil {
		if errors.Is(err, db.ErrNotLinked) {
			return fmt.Errorf("%w: %s", ErrNotAssociated,
				strings.TrimPrefix(err.Error(), db.ErrNotLinked.Error()+": "))
		}
		return fmt.Errorf("failed to disassociate contacts: %w", err)
	}

	return nil
}
