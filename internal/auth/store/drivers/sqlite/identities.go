package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
)

type identitiesRepo struct {
	db *sql.DB
}

func (r *identitiesRepo) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, email_confirmed, created_at, updated_at
		FROM identities
		WHERE email = ?`, email)

	var (
		id        domain.Identity
		role      string
		confirmed int
	)
	err := row.Scan(&id.ID, &id.Email, &id.PasswordHash, &role, &confirmed, &id.CreatedAt, &id.UpdatedAt)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}

	id.Role = domain.Role(role)
	id.EmailConfirmed = confirmed != 0
	return id, nil
}

func (r *identitiesRepo) Create(ctx context.Context, id domain.Identity) error {
	confirmed := 0
	if id.EmailConfirmed {
		confirmed = 1
	}

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, email, password_hash, role, email_confirmed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.ID, id.Email, id.PasswordHash, string(id.Role), confirmed, now, now,
	)
	return mapConstraint(err)
}
