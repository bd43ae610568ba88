// Package identity manages dashboard accounts and login.
package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
)

// User maps to the users table. PasswordHash never leaves the package.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
