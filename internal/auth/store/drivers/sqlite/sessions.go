package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/internal/auth/store"
)

type sessionsRepo struct {
	db *sql.DB
}

// Create enforces the per-owner cap and inserts in one statement. The
// INSERT ... SELECT only produces a row while the owner's active count is
// below max, so two racing logins can never both slip past the cap.
func (r *sessionsRepo) Create(ctx context.Context, sess domain.RefreshSession, max int) error {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (id, owner_id, owner_email, token, expires_at, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE (
			SELECT COUNT(*) FROM refresh_sessions
			WHERE owner_id = ? AND expires_at > ?
		) < ?`,
		sess.ID, sess.OwnerID, sess.OwnerEmail, sess.Token, sess.ExpiresAt.UTC(), now, now,
		sess.OwnerID, now, max,
	)
	if err != nil {
		return mapConstraint(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrSessionLimit
	}
	return nil
}

func (r *sessionsRepo) GetByToken(ctx context.Context, token string) (domain.RefreshSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, owner_email, token, expires_at, created_at, updated_at
		FROM refresh_sessions
		WHERE token = ?`, token)

	var sess domain.RefreshSession
	err := row.Scan(&sess.ID, &sess.OwnerID, &sess.OwnerEmail, &sess.Token,
		&sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return domain.RefreshSession{}, mapNotFound(err)
	}
	return sess, nil
}

func (r *sessionsRepo) Delete(ctx context.Context, token string) error {
	// Intentionally no rows-affected check: deleting an absent token is
	// a successful no-op.
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE token = ?`, token)
	return err
}

func (r *sessionsRepo) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE owner_id = ?`, ownerID)
	return err
}

// ExtendExpiration reads the stored expiry and writes it back pushed
// forward by the increment. The arithmetic happens Go-side because the
// driver stores timestamps as text, not as something SQLite date math
// understands.
func (r *sessionsRepo) ExtendExpiration(ctx context.Context, token string, by time.Duration) error {
	sess, err := r.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_sessions
		SET expires_at = ?, updated_at = ?
		WHERE token = ?`,
		sess.ExpiresAt.Add(by).UTC(), time.Now().UTC(), token,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) CountActiveByOwner(ctx context.Context, ownerID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM refresh_sessions
		WHERE owner_id = ? AND expires_at > ?`,
		ownerID, time.Now().UTC(),
	)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE expires_at <= ?`,
		time.Now().UTC())
	return err
}
