package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperr "github.com/jwalitptl/hms-api/pkg/errors"
)

type principalRepository struct {
	db *sqlx.DB
}

func NewPrincipalRepository(db *sqlx.DB) repository.PrincipalRepository {
	return &principalRepository{db: db}
}

// principalQuery projects the three account tables into one shape. The
// original system probed the stores one after another; a UNION gives the
// same "first match wins" semantics in a single round trip.
const principalQuery = `
	SELECT id, email, name, 'patient' AS role, password_hash, active, created_at, last_login_at FROM patients %[1]s
	UNION ALL
	SELECT id, email, name, 'doctor' AS role, password_hash, active, created_at, last_login_at FROM doctors %[1]s
	UNION ALL
	SELECT id, email, name, 'admin' AS role, password_hash, active, created_at, last_login_at FROM admins %[1]s
	LIMIT 1
`

var principalTables = []string{"patients", "doctors", "admins"}

func (r *principalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Principal, error) {
	query := fmt.Sprintf(principalQuery, "WHERE id = $1")
	var p model.Principal
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}
	return &p, nil
}

func (r *principalRepository) GetByEmail(ctx context.Context, email string) (*model.Principal, error) {
	query := fmt.Sprintf(principalQuery, "WHERE email = $1")
	var p model.Principal
	err := r.db.GetContext(ctx, &p, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal by email: %w", err)
	}
	return &p, nil
}

// updateEach applies the same statement against all three account tables
// and reports NotFound when no row matched anywhere.
func (r *principalRepository) updateEach(ctx context.Context, stmt string, args ...interface{}) error {
	var total int64
	for _, table := range principalTables {
		res, err := r.db.ExecContext(ctx, fmt.Sprintf(stmt, table), args...)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", table, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		total += rows
	}
	if total == 0 {
		return apperr.NotFound("user", nil)
	}
	return nil
}

func (r *principalRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.updateEach(ctx, `UPDATE %s SET active = $1, updated_at = $2 WHERE id = $3`, active, time.Now(), id)
}

func (r *principalRepository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.updateEach(ctx, `UPDATE %s SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, time.Now(), id)
}

func (r *principalRepository) StoreResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	return r.updateEach(ctx,
		`UPDATE %s SET password_reset_token = $1, password_reset_expires = $2, updated_at = $3 WHERE id = $4`,
		token, expiry, time.Now(), id,
	)
}

func (r *principalRepository) GetByResetToken(ctx context.Context, token string) (*model.Principal, error) {
	query := fmt.Sprintf(principalQuery,
		"WHERE password_reset_token = $1 AND password_reset_expires > $2 AND active = true")
	var p model.Principal
	err := r.db.GetContext(ctx, &p, query, token, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("reset token", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal by reset token: %w", err)
	}
	return &p, nil
}

func (r *principalRepository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	return r.updateEach(ctx,
		`UPDATE %s SET password_reset_token = NULL, password_reset_expires = NULL, updated_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
}

func (r *principalRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateEach(ctx, `UPDATE %s SET last_login_at = $1 WHERE id = $2`, at, id)
}
