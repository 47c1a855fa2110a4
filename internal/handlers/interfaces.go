package handlers

import (
	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/internal/services"
)

// AccountServiceInterface defines the contract for account operations.
// This interface is used for dependency injection and testing.
type AccountServiceInterface interface {
	Register(username, email, password string) (*models.User, error)
	Authenticate(username, password, totpCode string) (*models.User, error)
	GetUser(id string) (*models.User, error)

	// 2FA/TOTP methods
	GenerateTOTPSecret(userID string) (string, error)
	EnableTOTP(userID, totpCode string) error
	DisableTOTP(userID string) error
}

// ContactServiceInterface defines the contract for contact operations.
// This interface is used for dependency injection and testing.
type ContactServiceInterface interface {
	CreateContact(ownerID string, req *models.CreateContactRequest) (*models.Contact, error)
	GetContact(id, ownerID string) (*models.Contact, error)
	UpdateContact(id, ownerID string, req *models.UpdateContactRequest) (*models.Contact, error)
	DeleteContact(id, ownerID string) error
	ListContacts(ownerID string) ([]*models.Contact, error)
}

// TemplateServiceInterface defines the contract for template operations.
// This interface is used for dependency injection and testing.
type TemplateServiceInterface interface {
	CreateTemplate(ownerID string, req *models.CreateTemplateRequest) (*models.Template, error)
	GetTemplate(id, ownerID string) (*models.Template, error)
	UpdateTemplate(id, ownerID string, req *models.UpdateTemplateRequest) (*models.Template, error)
	DeleteTemplate(id, ownerID string) error
	ListTemplates(ownerID string) ([]*models.Template, error)
	ListTemplateContacts(id, ownerID string) ([]*models.Contact, error)
	Associate(templateID string, rawIdentifiers interface{}, ownerID string) (*services.AssociationResult, error)
	Disassociate(templateID string, rawIdentifiers interface{}, ownerID string) error
}

// DispatchServiceInterface defines the contract for message dispatch and log
// access. This interface is used for dependency injection and testing.
type DispatchServiceInterface interface {
	SendToRecipients(message string, rawRecipients interface{}, ownerID string) (*services.DispatchResult, error)
	SendTemplate(templateID, ownerID string) ([]*services.DispatchResult, error)
	Resend(messageLogID, ownerID, newBody string) (*services.DispatchResult, error)
	ListLogs(ownerID string) ([]*models.MessageLog, error)
	GetLog(id, ownerID string) (*models.MessageLog, []*models.RecipientLog, error)
}
