package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mulagohealth/mlaf/internal/model"
)

// ListAudits returns an item's audit trail in insertion order. Audit rows
// are only ever written inside PatchItem's transaction.
func ListAudits(ctx context.Context, db *sql.DB, itemID string) ([]model.Audit, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, admin_id, admin_username, action, note, created_at
		 FROM audits WHERE item_id = ? ORDER BY id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audits: %w", err)
	}
	defer rows.Close()

	var audits []model.Audit
	for rows.Next() {
		var a model.Audit
		var note sql.NullString
		if err := rows.Scan(&a.ID, &a.ItemID, &a.AdminID, &a.AdminUsername, &a.Action, &note, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit: %w", err)
		}
		a.Note = note.String
		audits = append(audits, a)
	}
	return audits, rows.Err()
}
