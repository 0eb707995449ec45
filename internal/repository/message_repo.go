package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// MessageRepository handles database operations for family messages
type MessageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, sender_kind, sender_id, recipient_kind, recipient_id, subject, body, delivery_method, email_sent, email_error, sms_sent, sms_error, is_read, deleted, created_at`

// CreateMessage inserts a new message
func (r *MessageRepository) CreateMessage(m *models.Message) (*models.Message, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now()
	if m.DeliveryMethod == "" {
		m.DeliveryMethod = models.DeliveryInApp
	}

	query := `
		INSERT INTO messages (id, sender_kind, sender_id, recipient_kind, recipient_id, subject, body, delivery_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		m.ID, string(m.Sender.Kind), m.Sender.ID, string(m.Recipient.Kind), m.Recipient.ID,
		m.Subject, m.Body, m.DeliveryMethod, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return m, nil
}

func scanMessage(scan func(dest ...interface{}) error) (*models.Message, error) {
	m := &models.Message{}
	var senderKind, recipientKind string
	err := scan(
		&m.ID, &senderKind, &m.Sender.ID, &recipientKind, &m.Recipient.ID,
		&m.Subject, &m.Body, &m.DeliveryMethod,
		&m.EmailSent, &m.EmailError, &m.SMSSent, &m.SMSError,
		&m.Read, &m.Deleted, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Sender.Kind = models.MemberKind(senderKind)
	m.Recipient.Kind = models.MemberKind(recipientKind)
	return m, nil
}

// GetMessageByID retrieves a message by ID
func (r *MessageRepository) GetMessageByID(id string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = ?`
	m, err := scanMessage(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

// ListMessagesForRecipient retrieves non-deleted messages addressed to a
// member, newest first
func (r *MessageRepository) ListMessagesForRecipient(ref models.MemberRef) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE recipient_kind = ? AND recipient_id = ? AND deleted = 0
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, string(ref.Kind), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}

	return messages, rows.Err()
}

// ListMessagesFromSender retrieves non-deleted messages a member sent,
// newest first
func (r *MessageRepository) ListMessagesFromSender(ref models.MemberRef) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE sender_kind = ? AND sender_id = ? AND deleted = 0
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, string(ref.Kind), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}

	return messages, rows.Err()
}

// UpdateDeliveryStatus records the per-channel outcome of a dispatch
func (r *MessageRepository) UpdateDeliveryStatus(id string, emailSent bool, emailError string, smsSent bool, smsError string) error {
	query := `UPDATE messages SET email_sent = ?, email_error = ?, sms_sent = ?, sms_error = ? WHERE id = ?`
	_, err := r.db.Exec(query, emailSent, emailError, smsSent, smsError, id)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	return nil
}

// MarkRead flags a message as read by its recipient
func (r *MessageRepository) MarkRead(id string) error {
	query := `UPDATE messages SET is_read = 1 WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// CountUnread returns the number of unread, non-deleted messages
// addressed to a member
func (r *MessageRepository) CountUnread(ref models.MemberRef) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE recipient_kind = ? AND recipient_id = ? AND is_read = 0 AND deleted = 0`
	var count int
	if err := r.db.QueryRow(query, string(ref.Kind), ref.ID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// SoftDeleteMessage hides a message without removing the row
func (r *MessageRepository) SoftDeleteMessage(id string) error {
	query := `UPDATE messages SET deleted = 1 WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
