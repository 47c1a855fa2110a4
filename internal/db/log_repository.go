package db

import (
	"database/sql"
	"fmt"

	"github.com/juliusmarkwei/swift-send/internal/models"

	"github.com/google/uuid"
)

// LogRepository defines the interface for message and recipient log access.
// Message logs are immutable; there is deliberately no Update.
type LogRepository interface {
	CreateWithRecipients(log *models.MessageLog, recipients []*models.RecipientLog) error
	GetByID(id, authorID string) (*models.MessageLog, error)
	ListByAuthor(authorID string) ([]*models.MessageLog, error)
	ListRecipients(messageID string) ([]*models.RecipientLog, error)
	CountByAuthor(authorID string) (int, error)
}

type logRepository struct {
	db *sql.DB
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *sql.DB) LogRepository {
	return &logRepository{db: db}
}

// CreateWithRecipients persists one MessageLog and its RecipientLogs as a
// single transaction, so a dispatch is either fully logged or not at all.
func (r *logRepository) CreateWithRecipients(log *models.MessageLog, recipients []*models.RecipientLog) error {
	if log == nil {
		return fmt.Errorf("message log cannot be nil")
	}
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO message_logs (id, content, author_id, sent_at) VALUES (?, ?, ?, ?)`,
		log.ID,
		log.Content,
		log.AuthorID,
		log.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message log: %w", err)
	}

	for _, recipient := range recipients {
		if recipient.Status == "" {
			recipient.Status = models.StatusPending
		}
		recipient.MessageID = log.ID

		result, err := tx.Exec(
			`INSERT INTO recipient_logs (contact_id, message_id, status) VALUES (?, ?, ?)`,
			recipient.ContactID,
			recipient.MessageID,
			recipient.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to create recipient log: %w", err)
		}

		if id, err := result.LastInsertId(); err == nil {
			recipient.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit logs: %w", err)
	}
	return nil
}

// GetByID retrieves a message log by ID, scoped to its author
func (r *logRepository) GetByID(id, authorID string) (*models.MessageLog, error) {
	if id == "" {
		return nil, fmt.Errorf("message log ID cannot be empty")
	}

	log := &models.MessageLog{}
	err := r.db.QueryRow(
		`SELECT id, content, author_id, sent_at FROM message_logs WHERE id = ? AND author_id = ?`,
		id, authorID,
	).Scan(&log.ID, &log.Content, &log.AuthorID, &log.SentAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message log: %w", err)
	}

	return log, nil
}

// ListByAuthor retrieves all message logs authored by authorID, newest first
func (r *logRepository) ListByAuthor(authorID string) ([]*models.MessageLog, error) {
	if authorID == "" {
		return nil, fmt.Errorf("author ID cannot be empty")
	}

	rows, err := r.db.Query(
		`SELECT id, content, author_id, sent_at FROM message_logs WHERE author_id = ? ORDER BY sent_at DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.MessageLog
	for rows.Next() {
		log := &models.MessageLog{}
		if err := rows.Scan(&log.ID, &log.Content, &log.AuthorID, &log.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message log: %w", err)
		}
		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message logs: %w", err)
	}

	return logs, nil
}

// ListRecipients retrieves the recipient logs of one message log
func (r *logRepository) ListRecipients(messageID string) ([]*models.RecipientLog, error) {
	if messageID == "" {
		return nil, fmt.Errorf("message log ID cannot be empty")
	}

	rows, err := r.db.Query(
		`SELECT id, contact_id, message_id, status FROM recipient_logs WHERE message_id = ? ORDER BY id`,
		messageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipient logs: %w", err)
	}
	defer rows.Close()

	var recipients []*models.RecipientLog
	for rows.Next() {
		recipient := &models.RecipientLog{}
		if err := rows.Scan(&recipient.ID, &recipient.ContactID, &recipient.MessageID, &recipient.Status); err != nil {
			return nil, fmt.Errorf("failed to scan recipient log: %w", err)
		}
		recipients = append(recipients, recipient)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipient logs: %w", err)
	}

	return recipients, nil
}

// CountByAuthor returns the number of message logs authored by authorID
func (r *logRepository) CountByAuthor(authorID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM message_logs WHERE author_id = ?`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count message logs: %w", err)
	}
	return count, nil
}
