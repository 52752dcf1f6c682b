package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/repository"
)

type identityRepository struct {
	db *sql.DB
}

// NewIdentityRepository creates a new IdentityRepository implementation
func NewIdentityRepository(db *sql.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) CreateGuest(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")

	guestID := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `INSERT INTO guests (guest_id) VALUES (?)`, guestID)
	if err != nil {
		log.Error("failed to create guest: %v", err)
		return "", err
	}
	log.Info("guest identity created: guest_id=%s", guestID)
	return guestID, nil
}

func (r *identityRepository) GuestExists(ctx context.Context, guestID string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")

	var found string
	err := r.db.QueryRowContext(ctx, `SELECT guest_id FROM guests WHERE guest_id = ?`, guestID).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		log.Error("failed to look up guest: %v", err)
		return false, err
	}
	return true, nil
}
