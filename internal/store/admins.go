package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mulagohealth/mlaf/internal/model"
)

// ErrAdminExists is returned when registration is attempted after the
// sole admin account has been created.
var ErrAdminExists = errors.New("admin already exists")

// CountAdmins returns the number of admin accounts.
func CountAdmins(ctx context.Context, db *sql.DB) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return count, nil
}

// CreateFirstAdmin creates the sole admin account. The count check runs
// inside the insert transaction so two concurrent first registrations
// cannot both succeed. Returns ErrAdminExists once any admin exists.
func CreateFirstAdmin(ctx context.Context, db *sql.DB, username, passwordHash string) (*model.Admin, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning registration: %w", err)
	}
	defer tx.Rollback()

	var count int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting admin id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing registration: %w", err)
	}

	return GetAdmin(ctx, db, id)
}

// GetAdmin returns an admin by ID, or nil if none exists.
func GetAdmin(ctx context.Context, db *sql.DB, id int64) (*model.Admin, error) {
	a := &model.Admin{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE id = ?`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin: %w", err)
	}
	return a, nil
}

// GetAdminByUsername returns an admin by username, or nil if none exists.
func GetAdminByUsername(ctx context.Context, db *sql.DB, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin by username: %w", err)
	}
	return a, nil
}

// BootstrapAdmin provisions the sole admin from configured credentials if
// no admin exists yet. Called once at startup before the listener opens;
// failures are logged, not fatal, so a misconfigured bootstrap never
// blocks the server.
func BootstrapAdmin(ctx context.Context, db *sql.DB, username, passwordHash string) {
	if username == "" || passwordHash == "" {
		return
	}

	_, err := CreateFirstAdmin(ctx, db, username, passwordHash)
	if errors.Is(err, ErrAdminExists) {
		return
	}
	if err != nil {
		slog.Warn("bootstrap admin provisioning failed", "username", username, "error", err)
		return
	}
	slog.Info("bootstrap admin provisioned", "username", username)
}
