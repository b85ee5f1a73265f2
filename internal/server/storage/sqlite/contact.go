package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/storage"
)

// AppendMessage upserts the thread keyed by email and appends an entry.
// Один тред на email: повторное сообщение не создает второй документ.
// Поиск и вставка идут в одной транзакции, иначе два одновременных первых
// сообщения от одного email гонялись бы за UNIQUE-индексом.
func (s *Storage) AppendMessage(ctx context.Context, name, email, message string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	created := false

	var threadID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM contact_threads WHERE email = ?`, email).Scan(&threadID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		threadID = uuid.New().String()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO contact_threads (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			threadID, name, email, now, now,
		)
		if err != nil {
			return false, fmt.Errorf("failed to create contact thread: %w", err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("failed to look up contact thread: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE contact_threads SET updated_at = ? WHERE id = ?`, now, threadID,
		); err != nil {
			return false, fmt.Errorf("failed to touch contact thread: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contact_messages (thread_id, message, created_at) VALUES (?, ?, ?)`,
		threadID, message, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to append contact message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// GetThreadByEmail returns a thread with its ordered messages
func (s *Storage) GetThreadByEmail(ctx context.Context, email string) (*models.ContactThread, error) {
	thread := &models.ContactThread{}

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM contact_threads WHERE email = ?`, email,
	).Scan(&thread.ID, &thread.Name, &thread.Email, &thread.CreatedAt, &thread.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to get contact thread: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT message, created_at FROM contact_messages WHERE thread_id = ? ORDER BY id ASC`, thread.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg models.ContactMessage
		if err := rows.Scan(&msg.Message, &msg.Time); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		thread.Messages = append(thread.Messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
	}

	return thread, nil
}
