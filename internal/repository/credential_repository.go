package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/plzfm/song-request-kiosk/internal/model"
)

// CredentialRepo manages staff API keys. Only the bcrypt hash of a
// secret is ever stored; verification happens in the handler layer
// against the hash loaded here.
type CredentialRepo struct {
	db *sql.DB
}

// NewCredentialRepo constructs a CredentialRepo with the given DB handle.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Create stores a new active credential with the given secret hash and
// returns it with its generated identifier.
func (r *CredentialRepo) Create(ctx context.Context, secretHash string) (*model.Credential, error) {
	c := &model.Credential{ID: uuid.NewString(), SecretHash: secretHash, Active: true}
	const q = `INSERT INTO credentials (credential_id, secret_hash) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, c.ID, c.SecretHash); err != nil {
		return nil, err
	}
	const sel = `SELECT created_at FROM credentials WHERE credential_id = ?`
	if err := r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// GetActive loads an active credential by ID. Inactive or missing
// credentials both return ErrNotFound so callers cannot distinguish a
// revoked key from a nonexistent one.
func (r *CredentialRepo) GetActive(ctx context.Context, id string) (*model.Credential, error) {
	const q = `SELECT credential_id, secret_hash, active, created_at FROM credentials WHERE credential_id = ? AND active = 1`
	var c model.Credential
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.SecretHash, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Deactivate revokes a credential without deleting it. Returns
// ErrNotFound when the credential does not exist or is already revoked.
func (r *CredentialRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE credentials SET active = 0 WHERE credential_id = ? AND active = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
