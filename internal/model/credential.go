package model

import "time"

// Credential is a staff API key. Only the bcrypt hash of the secret is
// stored; the raw secret is shown once at creation and never again.
// Inactive credentials fail verification without being deleted.
type Credential struct {
	ID         string    `json:"id"` // credentials.credential_id
	SecretHash string    `json:"-"`  // credentials.secret_hash, never serialized
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}
