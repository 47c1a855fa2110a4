package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/juliusmarkwei/swift-send/internal/models"

	"github.com/google/uuid"
)

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(contact *models.Contact) error
	GetByID(id, ownerID string) (*models.Contact, error)
	GetByPhone(phone, ownerID string) (*models.Contact, error)
	GetOrCreate(phone, ownerID string) (*models.Contact, bool, error)
	Update(contact *models.Contact) error
	Delete(id, ownerID string) error
	ListByOwner(ownerID string) ([]*models.Contact, error)
	CountByOwner(ownerID string) (int, error)
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, full_name, email, phone, info, created_by, created_at, updated_at`

// Create inserts a new contact. Returns ErrDuplicate when the owner already
// has the phone number, or when the email is taken.
func (r *contactRepository) Create(contact *models.Contact) error {
	if contact == nil {
		return fmt.Errorf("contact cannot be nil")
	}

	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}

	now := time.Now().Unix()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	query := `
		INSERT INTO contacts (id, full_name, email, phone, info, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		contact.ID,
		contact.FullName,
		nullableString(contact.Email),
		contact.Phone,
		contact.Info,
		contact.CreatedBy,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: phone %s", ErrDuplicate, contact.Phone)
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact by ID, scoped to its owner
func (r *contactRepository) GetByID(id, ownerID string) (*models.Contact, error) {
	if id == "" {
		return nil, fmt.Errorf("contact ID cannot be empty")
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ? AND created_by = ?`
	return r.scanOne(r.db.QueryRow(query, id, ownerID))
}

// GetByPhone retrieves the owner's contact with the given phone number
func (r *contactRepository) GetByPhone(phone, ownerID string) (*models.Contact, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone cannot be empty")
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE phone = ? AND created_by = ?`
	return r.scanOne(r.db.QueryRow(query, phone, ownerID))
}

// GetOrCreate returns the owner's contact for phone, creating a bare one if
// none exists. The unique (phone, created_by) constraint resolves concurrent
// creates: the loser's insert is a no-op and it reads the winner's row.
func (r *contactRepository) GetOrCreate(phone, ownerID string) (*models.Contact, bool, error) {
	if phone == "" {
		return nil, false, fmt.Errorf("phone cannot be empty")
	}
	if ownerID == "" {
		return nil, false, fmt.Errorf("owner ID cannot be empty")
	}

	contact := models.NewContact(phone, ownerID)

	query := `
		INSERT INTO contacts (id, full_name, email, phone, info, created_by, created_at, updated_at)
		VALUES (?, '', NULL, ?, '', ?, ?, ?)
		ON CONFLICT (phone, created_by) DO NOTHING
	`

	result, err := r.db.Exec(query, contact.ID, contact.Phone, contact.CreatedBy, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 1 {
		return contact, true, nil
	}

	existing, err := r.GetByPhone(phone, ownerID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("contact for phone %s disappeared during upsert", phone)
	}
	return existing, false, nil
}

// Update updates an existing contact's attributes
func (r *contactRepository) Update(contact *models.Contact) error {
	if contact == nil {
		return fmt.Errorf("contact cannot be nil")
	}
	if contact.ID == "" {
		return fmt.Errorf("contact ID cannot be empty")
	}

	contact.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE contacts
		SET full_name = ?, email = ?, phone = ?, info = ?, updated_at = ?
		WHERE id = ? AND created_by = ?
	`

	result, err := r.db.Exec(query,
		contact.FullName,
		nullableString(contact.Email),
		contact.Phone,
		contact.Info,
		contact.UpdatedAt,
		contact.ID,
		contact.CreatedBy,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: phone %s", ErrDuplicate, contact.Phone)
		}
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found")
	}

	return nil
}

// Delete removes a contact. Recipient logs pointing at it keep their rows with
// contact_id cleared by the schema's ON DELETE SET NULL.
func (r *contactRepository) Delete(id, ownerID string) error {
	if id == "" {
		return fmt.Errorf("contact ID cannot be empty")
	}

	result, err := r.db.Exec(`DELETE FROM contacts WHERE id = ? AND created_by = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found")
	}

	return nil
}

// ListByOwner retrieves all contacts owned by ownerID
func (r *contactRepository) ListByOwner(ownerID string) ([]*models.Contact, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner ID cannot be empty")
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE created_by = ? ORDER BY created_at DESC`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
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
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// CountByOwner returns the number of contacts owned by ownerID
func (r *contactRepository) CountByOwner(ownerID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM contacts WHERE created_by = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

func (r *contactRepository) scanOne(row *sql.Row) (*models.Contact, error) {
	contact := &models.Contact{}
	var email sql.NullString
	err := row.Scan(
		&contact.ID,
		&contact.FullName,
		&email,
		&contact.Phone,
		&contact.Info,
		&contact.CreatedBy,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	contact.Email = email.String
	return contact, nil
}

func scanContact(rows *sql.Rows) (*models.Contact, error) {
	contact := &models.Contact{}
	var email sql.NullString
	err := rows.Scan(
		&contact.ID,
		&contact.FullName,
		&email,
		&contact.Phone,
		&contact.Info,
		&contact.CreatedBy,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	contact.Email = email.String
	return contact, nil
}
