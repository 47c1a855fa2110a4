package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/gateway"
	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/pkg/logger"

	"go.uber.org/zap"
)

// SMSGateway is the narrow send interface the dispatcher needs from the
// external bulk-SMS service
type SMSGateway interface {
	Send(message string, to []string) (*gateway.Result, error)
}

// DispatchResult reports one completed dispatch: the created log, its
// per-recipient rows, and any numbers the gateway reported that could not be
// mapped back to a contact.
type DispatchResult struct {
	Log        *models.MessageLog     `json:"log"`
	Recipients []*models.RecipientLog `json:"recipients"`
	Unmatched  []string               `json:"unmatched,omitempty"`
}

// DispatchService coordinates recipient resolution, the gateway call and log
// reconciliation
type DispatchService struct {
	resolver  *ContactResolver
	contacts  db.ContactRepository
	templates db.TemplateRepository
	logs      db.LogRepository
	gateway   SMSGateway
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(
	resolver *ContactResolver,
	contacts db.ContactRepository,
	templates db.TemplateRepository,
	logs db.LogRepository,
	gw SMSGateway,
) *DispatchService {
	return &DispatchService{
		resolver:  resolver,
		contacts:  contacts,
		templates: templates,
		logs:      logs,
		gateway:   gw,
	}
}

// SendToRecipients sends message to the recipients in rawRecipients (a list
// or a single delimited string), creating contacts for unknown numbers. No
// MessageLog is written when the gateway call fails; the dispatch is
// all-or-nothing up to the gateway's own report.
func (s *DispatchService) SendToRecipients(message string, rawRecipients interface{}, ownerID string) (*DispatchResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrValidation)
	}

	identifiers, err := NormalizeRecipients(rawRecipients)
	if err != nil {
		return nil, err
	}
	if len(identifiers) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", ErrValidation)
	}

	if _, err := s.resolver.ResolveOrCreate(identifiers, ownerID); err != nil {
		return nil, err
	}

	result, err := s.gateway.Send(message, identifiers)
	if err != nil {
		logger.Error("Gateway send failed",
			zap.String("user_id", ownerID),
			zap.Int("recipient_count", len(identifiers)),
			zap.Error(err),
		)
		return nil, err
	}

	return s.Reconcile(message, ownerID, result)
}

// SendTemplate dispatches the template to every associated contact, one
// personalized send per contact. It aborts on the first per-contact failure
// and returns the results accumulated so far alongside the error; logs for
// contacts already sent to are kept.
func (s *DispatchService) SendTemplate(templateID, ownerID string) ([]*DispatchResult, error) {
	template, err := s.templates.GetByID(templateID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if template == nil {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
	}

	contacts, err := s.templates.ListContacts(template.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list template contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, fmt.Errorf("%w: template has no associated contacts", ErrNoRecipients)
	}

	var results []*DispatchResult
	for _, contact := range contacts {
		body := Render(template.Content, contact)

		result, err := s.gateway.Send(body, []string{contact.Phone})
		if err != nil {
			logger.Error("Template send failed",
				zap.String("template_id", template.ID),
				zap.String("contact_id", contact.ID),
				zap.Error(err),
			)
			return results, err
		}

		dispatched, err := s.Reconcile(body, ownerID, result)
		if err != nil {
			return results, err
		}
		results = append(results, dispatched)

		if err := s.templates.TouchLastSent(template.ID, time.Now().Unix()); err != nil {
			return results, fmt.Errorf("failed to update last_sent: %w", err)
		}
	}

	return results, nil
}

// Resend sends the content of an earlier message log to the contacts still
// linked through its recipient rows. newBody, when non-empty, replaces the
// original content. A fresh MessageLog is created; the original is never
// touched.
func (s *DispatchService) Resend(messageLogID, ownerID, newBody string) (*DispatchResult, error) {
	log, err := s.logs.GetByID(messageLogID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message log: %w", err)
	}
	if log == nil {
		return nil, fmt.Errorf("%w: message log %s", ErrNotFound, messageLogID)
	}

	recipients, err := s.logs.ListRecipients(log.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipient logs: %w", err)
	}

	var phones []string
	seen := make(map[string]struct{})
	for _, recipient := range recipients {
		if recipient.ContactID == nil {
			// Contact deleted since the original send
			continue
		}
		contact, err := s.contacts.GetByID(*recipient.ContactID, ownerID)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			continue
		}
		if _, ok := seen[contact.Phone]; ok {
			continue
		}
		seen[contact.Phone] = struct{}{}
		phones = append(phones, contact.Phone)
	}

	if len(phones) == 0 {
		return nil, fmt.Errorf("%w: every recipient of this message is gone", ErrNoRecipients)
	}

	body := log.Content
	if newBody != "" {
		body = newBody
	}

	result, err := s.gateway.Send(body, phones)
	if err != nil {
		logger.Error("Resend failed",
			zap.String("message_log_id", log.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return s.Reconcile(body, ownerID, result)
}

// ListLogs retrieves the owner's message logs, most recent first
func (s *DispatchService) ListLogs(ownerID string) ([]*models.MessageLog, error) {
	logs, err := s.logs.ListByAuthor(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}
	return logs, nil
}

// GetLog retrieves one of the owner's message logs together with its
// per-recipient rows
func (s *DispatchService) GetLog(id, ownerID string) (*models.MessageLog, []*models.RecipientLog, error) {
	log, err := s.logs.GetByID(id, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get message log: %w", err)
	}
	if log == nil {
		return nil, nil, fmt.Errorf("%w: message log %s", ErrNotFound, id)
	}

	recipients, err := s.logs.ListRecipients(log.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list recipient logs: %w", err)
	}
	return log, recipients, nil
}

// Reconcile persists one MessageLog and one RecipientLog per gateway response
// entry that maps to a contact of the owner, all in one transaction. An entry
// with an empty number fails the whole reconciliation before anything is
// written; an entry whose number maps to no contact is reported in Unmatched
// and skipped.
func (s *DispatchService) Reconcile(message, ownerID string, result *gateway.Result) (*DispatchResult, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: gateway result is required", ErrValidation)
	}

	for _, entry := range result.Recipients {
		if strings.TrimSpace(entry.Number) == "" {
			return nil, fmt.Errorf("%w: gateway reported a recipient without a phone number", ErrValidation)
		}
	}

	var recipientLogs []*models.RecipientLog
	var unmatched []string
	for _, entry := range result.Recipients {
		contact, err := s.contacts.GetByPhone(entry.Number, ownerID)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			logger.Warn("Gateway reported an unknown recipient",
				zap.String("user_id", ownerID),
				zap.String("number", entry.Number),
			)
			unmatched = append(unmatched, entry.Number)
			continue
		}

		contactID := contact.ID
		recipientLogs = append(recipientLogs, &models.RecipientLog{
			ContactID: &contactID,
			Status:    entry.Status,
		})
	}

	log := models.NewMessageLog(message, ownerID)
	if err := s.logs.CreateWithRecipients(log, recipientLogs); err != nil {
		return nil, err
	}

	logger.Info("Dispatch logged",
		zap.String("message_log_id", log.ID),
		zap.Int("recipients", len(recipientLogs)),
		zap.Int("unmatched", len(unmatched)),
	)

	return &DispatchResult{
		Log:        log,
		Recipients: recipientLogs,
		Unmatched:  unmatched,
	}, nil
}
