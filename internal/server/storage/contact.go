package storage

import (
	"context"

	"github.com/echobugg/portfolio-api/internal/models"
)

// ContactStorage defines the interface for contact-form threads
type ContactStorage interface {
	// AppendMessage upserts the thread keyed by email: the first message
	// from an email creates the thread, later ones append an entry.
	// Returns created=true when a new thread was started.
	AppendMessage(ctx context.Context, name, email, message string) (created bool, err error)

	// GetThreadByEmail returns a thread with its ordered messages
	// Returns ErrThreadNotFound if no thread exists for the email
	GetThreadByEmail(ctx context.Context, email string) (*models.ContactThread, error)
}
