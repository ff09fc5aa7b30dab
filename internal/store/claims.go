package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mulagohealth/mlaf/internal/model"
)

// AppendClaim records an ownership claim against an item. Claims are
// append-only; there is deliberately no update or delete counterpart.
// No status check is made: the public may express interest in an item
// before an admin has curated it. Returns nil if no such item exists.
func AppendClaim(ctx context.Context, db *sql.DB, itemID, fullName, contact, note string) (*model.Claim, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)`, itemID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if !exists {
		return nil, nil
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO claims (item_id, full_name, contact, note) VALUES (?, ?, ?, ?)`,
		itemID, fullName, contact, note,
	)
	if err != nil {
		return nil, fmt.Errorf("appending claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	claim := &model.Claim{}
	var noteVal sql.NullString
	err = db.QueryRowContext(ctx,
		`SELECT id, item_id, full_name, contact, note, created_at FROM claims WHERE id = ?`, id,
	).Scan(&claim.ID, &claim.ItemID, &claim.FullName, &claim.Contact, &noteVal, &claim.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	claim.Note = noteVal.String
	return claim, nil
}

// ListClaims returns an item's claims in insertion order.
func ListClaims(ctx context.Context, db *sql.DB, itemID string) ([]model.Claim, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, full_name, contact, note, created_at
		 FROM claims WHERE item_id = ? ORDER BY id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		var note sql.NullString
		if err := rows.Scan(&c.ID, &c.ItemID, &c.FullName, &c.Contact, &note, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		c.Note = note.String
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
