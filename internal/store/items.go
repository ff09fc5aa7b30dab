package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mulagohealth/mlaf/internal/model"
)

// NewItem holds the normalized fields of an item report.
type NewItem struct {
	Name            string
	Category        string
	Location        string
	Description     string
	ReporterName    string
	ReporterContact string
	Image           string
}

// ItemPatch describes a partial administrative update. Nil pointers mean
// "leave unchanged". Note never modifies the item itself; together with
// Status it decides whether an audit entry is appended.
type ItemPatch struct {
	Status         *string
	Name           *string
	Category       *string
	Location       *string
	Description    *string
	Image          *string
	ClaimedBy      *string
	ClaimedContact *string

	Note          string
	AdminID       int64
	AdminUsername string
}

// CreateItem creates a new item report with status pending.
func CreateItem(ctx context.Context, db *sql.DB, in NewItem) (*model.Item, error) {
	if in.Name == "" {
		in.Name = model.DefaultItemName
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, name, category, location, description, reporter_name, reporter_contact, image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Name, in.Category, in.Location, in.Description, in.ReporterName, in.ReporterContact, in.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

const itemColumns = `id, name, category, location, description, reporter_name, reporter_contact,
	image, photo_mime, status, claimed_by, claimed_contact,
	last_action, last_admin_id, last_admin_username, last_action_at, created_at`

// scanItem scans one item row from a query using itemColumns.
func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{}
	var category, location, description, reporterName, reporterContact sql.NullString
	var image, photoMime, claimedBy, claimedContact sql.NullString
	var lastAction, lastAdminUsername sql.NullString
	var lastAdminID sql.NullInt64
	var lastActionAt sql.NullTime

	err := row.Scan(&item.ID, &item.Name, &category, &location, &description,
		&reporterName, &reporterContact, &image, &photoMime, &item.Status,
		&claimedBy, &claimedContact,
		&lastAction, &lastAdminID, &lastAdminUsername, &lastActionAt, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	item.Category = category.String
	item.Location = location.String
	item.Description = description.String
	item.ReporterName = reporterName.String
	item.ReporterContact = reporterContact.String
	item.Image = image.String
	item.PhotoMime = photoMime.String
	item.ClaimedBy = claimedBy.String
	item.ClaimedContact = claimedContact.String

	if lastAction.Valid {
		item.LastAction = &model.LastAction{
			Action:        lastAction.String,
			AdminID:       lastAdminID.Int64,
			AdminUsername: lastAdminUsername.String,
			Timestamp:     lastActionAt.Time,
		}
	}

	return item, nil
}

// GetItem returns an item by ID with its claims and audits, or nil if
// no such item exists.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	items := []*model.Item{item}
	if err := attachHistory(ctx, db, items); err != nil {
		return nil, err
	}
	return item, nil
}

// ListRecent returns the most recent items across all statuses,
// newest first, bounded by limit.
func ListRecent(ctx context.Context, db *sql.DB, limit int) ([]*model.Item, error) {
	return listItems(ctx, db,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// ListPending returns the most recent pending items for admin review,
// newest first, bounded by limit.
func ListPending(ctx context.Context, db *sql.DB, limit int) ([]*model.Item, error) {
	return listItems(ctx, db,
		`SELECT `+itemColumns+` FROM items WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		model.StatusPending, limit)
}

func listItems(ctx context.Context, db *sql.DB, query string, args ...any) ([]*model.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachHistory(ctx, db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachHistory loads claims and audits for the given items with two bulk
// queries and distributes them in insertion order.
func attachHistory(ctx context.Context, db *sql.DB, items []*model.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*model.Item, len(items))
	ids := make([]any, 0, len(items))
	for _, item := range items {
		item.Claims = []model.Claim{}
		item.Audits = []model.Audit{}
		byID[item.ID] = item
		ids = append(ids, item.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, full_name, contact, note, created_at
		 FROM claims WHERE item_id IN (`+placeholders+`) ORDER BY id`, ids...)
	if err != nil {
		return fmt.Errorf("loading claims: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Claim
		var note sql.NullString
		if err := rows.Scan(&c.ID, &c.ItemID, &c.FullName, &c.Contact, &note, &c.Timestamp); err != nil {
			return fmt.Errorf("scanning claim: %w", err)
		}
		c.Note = note.String
		if item := byID[c.ItemID]; item != nil {
			item.Claims = append(item.Claims, c)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	auditRows, err := db.QueryContext(ctx,
		`SELECT id, item_id, admin_id, admin_username, action, note, created_at
		 FROM audits WHERE item_id IN (`+placeholders+`) ORDER BY id`, ids...)
	if err != nil {
		return fmt.Errorf("loading audits: %w", err)
	}
	defer auditRows.Close()
	for auditRows.Next() {
		var a model.Audit
		var note sql.NullString
		if err := auditRows.Scan(&a.ID, &a.ItemID, &a.AdminID, &a.AdminUsername, &a.Action, &note, &a.Timestamp); err != nil {
			return fmt.Errorf("scanning audit: %w", err)
		}
		a.Note = note.String
		if item := byID[a.ItemID]; item != nil {
			item.Audits = append(item.Audits, a)
		}
	}
	return auditRows.Err()
}

// PatchItem applies a partial administrative update in one transaction.
// Iff the patch carries a status or a note, exactly one audit entry is
// appended and the item's last_action snapshot is overwritten with it.
// Returns nil if no such item exists. Concurrent patches serialize at
// the database; the later writer's field values win.
func PatchItem(ctx context.Context, db *sql.DB, id string, p ItemPatch) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning patch: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if !exists {
		return nil, nil
	}

	var sets []string
	var args []any
	set := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	set("status", p.Status)
	set("name", p.Name)
	set("category", p.Category)
	set("location", p.Location)
	set("description", p.Description)
	set("image", p.Image)
	set("claimed_by", p.ClaimedBy)
	set("claimed_contact", p.ClaimedContact)

	if len(sets) > 0 {
		args = append(args, id)
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return nil, fmt.Errorf("updating item: %w", err)
		}
	}

	var newStatus string
	if p.Status != nil {
		newStatus = *p.Status
	}
	if action := model.AuditAction(newStatus, p.Note); action != "" {
		now := time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO audits (item_id, admin_id, admin_username, action, note, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, p.AdminID, p.AdminUsername, action, p.Note, now)
		if err != nil {
			return nil, fmt.Errorf("appending audit: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE items SET last_action = ?, last_admin_id = ?, last_admin_username = ?, last_action_at = ?
			 WHERE id = ?`,
			action, p.AdminID, p.AdminUsername, now, id)
		if err != nil {
			return nil, fmt.Errorf("updating last action: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing patch: %w", err)
	}

	return GetItem(ctx, db, id)
}

// SetItemPhoto stores an item's processed photo. Returns false if no such
// item exists.
func SetItemPhoto(ctx context.Context, db *sql.DB, id string, photo []byte, mime string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting item photo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("setting item photo: %w", err)
	}
	return n > 0, nil
}

// GetItemPhoto returns an item's photo bytes and MIME type, or nil bytes
// if the item has no photo or does not exist.
func GetItemPhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}
