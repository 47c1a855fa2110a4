package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/juliusmarkwei/swift-send/internal/models"

	"github.com/google/uuid"
)

// ErrNotLinked indicates a disassociation referenced a (template, contact)
// pair that is not currently linked
var ErrNotLinked = errors.New("contact not associated with template")

// TemplateRepository defines the interface for template data access, including
// the template-contact association table
type TemplateRepository interface {
	Create(template *models.Template) error
	GetByID(id, ownerID string) (*models.Template, error)
	Update(template *models.Template) error
	Delete(id, ownerID string) error
	ListByOwner(ownerID string) ([]*models.Template, error)
	TouchLastSent(id string, sentAt int64) error

	AssociateContact(templateID, contactID string) (bool, error)
	DisassociateContacts(templateID string, contactIDs []string) error
	ListContacts(templateID string) ([]*models.Contact, error)
	AssociationCount(templateID string) (int, error)
}

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

const templateColumns = `id, name, content, created_by, last_sent, created_at, updated_at`

// Create inserts a new template. Returns ErrDuplicate when the owner already
// has a template with the same name.
func (r *templateRepository) Create(template *models.Template) error {
	if template == nil {
		return fmt.Errorf("template cannot be nil")
	}

	if template.ID == "" {
		template.ID = uuid.New().String()
	}

	now := time.Now().Unix()
	template.CreatedAt = now
	template.UpdatedAt = now

	query := `
		INSERT INTO templates (id, name, content, created_by, last_sent, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, ?, ?)
	`

	_, err := r.db.Exec(query,
		template.ID,
		template.Name,
		template.Content,
		template.CreatedBy,
		template.CreatedAt,
		template.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: template %s", ErrDuplicate, template.Name)
		}
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by ID, scoped to its owner
func (r *templateRepository) GetByID(id, ownerID string) (*models.Template, error) {
	if id == "" {
		return nil, fmt.Errorf("template ID cannot be empty")
	}

	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ? AND created_by = ?`

	template := &models.Template{}
	var lastSent sql.NullInt64
	err := r.db.QueryRow(query, id, ownerID).Scan(
		&template.ID,
		&template.Name,
		&template.Content,
		&template.CreatedBy,
		&lastSent,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if lastSent.Valid {
		template.LastSent = &lastSent.Int64
	}
	return template, nil
}

// Update updates a template's name and content
func (r *templateRepository) Update(template *models.Template) error {
	if template == nil {
		return fmt.Errorf("template cannot be nil")
	}
	if template.ID == "" {
		return fmt.Errorf("template ID cannot be empty")
	}

	template.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE templates
		SET name = ?, content = ?, updated_at = ?
		WHERE id = ? AND created_by = ?
	`

	result, err := r.db.Exec(query,
		template.Name,
		template.Content,
		template.UpdatedAt,
		template.ID,
		template.CreatedBy,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: template %s", ErrDuplicate, template.Name)
		}
		return fmt.Errorf("failed to update template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("template not found")
	}

	return nil
}

// Delete deletes a template; its associations cascade away with it
func (r *templateRepository) Delete(id, ownerID string) error {
	if id == "" {
		return fmt.Errorf("template ID cannot be empty")
	}

	result, err := r.db.Exec(`DELETE FROM templates WHERE id = ? AND created_by = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("template not found")
	}

	return nil
}

// ListByOwner retrieves all templates owned by ownerID
func (r *templateRepository) ListByOwner(ownerID string) ([]*models.Template, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner ID cannot be empty")
	}

	query := `SELECT ` + templateColumns + ` FROM templates WHERE created_by = ? ORDER BY created_at DESC`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		template := &models.Template{}
		var lastSent sql.NullInt64
		err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.Content,
			&template.CreatedBy,
			&lastSent,
			&template.CreatedAt,
			&template.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		if lastSent.Valid {
			template.LastSent = &lastSent.Int64
		}
		templates = append(templates, template)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// TouchLastSent records that the template was just dispatched
func (r *templateRepository) TouchLastSent(id string, sentAt int64) error {
	if id == "" {
		return fmt.Errorf("template ID cannot be empty")
	}

	result, err := r.db.Exec(`UPDATE templates SET last_sent = ? WHERE id = ?`, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to update last_sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("template not found")
	}

	return nil
}

// AssociateContact links a contact to a template. Returns true when a new link
// was created, false when the pair was already linked. The primary key on
// (contact_id, template_id) makes concurrent attempts converge on one row.
func (r *templateRepository) AssociateContact(templateID, contactID string) (bool, error) {
	if templateID == "" || contactID == "" {
		return false, fmt.Errorf("template ID and contact ID cannot be empty")
	}

	query := `
		INSERT INTO contact_templates (contact_id, template_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (contact_id, template_id) DO NOTHING
	`

	result, err := r.db.Exec(query, contactID, templateID, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to associate contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

// DisassociateContacts removes the links for all given contacts in one
// transaction. If any contact is not currently linked the whole call rolls
// back and ErrNotLinked is returned wrapping that contact's ID.
func (r *templateRepository) DisassociateContacts(templateID string, contactIDs []string) error {
	if templateID == "" {
		return fmt.Errorf("template ID cannot be empty")
	}
	if len(contactIDs) == 0 {
		return fmt.Errorf("contact IDs cannot be empty")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, contactID := range contactIDs {
		result, err := tx.Exec(
			`DELETE FROM contact_templates WHERE template_id = ? AND contact_id = ?`,
			templateID, contactID,
		)
		if err != nil {
			return fmt.Errorf("failed to disassociate contact: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: %s", ErrNotLinked, contactID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit disassociation: %w", err)
	}
	return nil
}

// ListContacts retrieves all contacts associated with the template
func (r *templateRepository) ListContacts(templateID string) ([]*models.Contact, error) {
	if templateID == "" {
		return nil, fmt.Errorf("template ID cannot be empty")
	}

	query := `
		SELECT c.id, c.full_name, c.email, c.phone, c.info, c.created_by, c.created_at, c.updated_at
		FROM contacts c
		INNER JOIN contact_templates ct ON c.id = ct.contact_id
		WHERE ct.template_id = ?
		ORDER BY ct.created_at
	`

	rows, err := r.db.Query(query, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list template contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template contacts: %w", err)
	}

	return contacts, nil
}

// AssociationCount returns the number of contacts linked to the template
func (r *templateRepository) AssociationCount(templateID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM contact_templates WHERE template_id = ?`, templateID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count associations: %w", err)
	}
	return count, nil
}
