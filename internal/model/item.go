package model

import "time"

// Item represents a reported lost-and-found item tracked through its
// review and claim lifecycle. Claims and Audits are owned by the item
// and cannot outlive it.
type Item struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Category        string      `json:"category,omitempty"`
	Location        string      `json:"location,omitempty"`
	Description     string      `json:"description,omitempty"`
	ReporterName    string      `json:"reporterName,omitempty"`
	ReporterContact string      `json:"reporterContact,omitempty"`
	Image           string      `json:"image,omitempty"`
	PhotoMime       string      `json:"photoMime,omitempty"`
	Status          string      `json:"status"`
	ClaimedBy       string      `json:"claimedBy,omitempty"`
	ClaimedContact  string      `json:"claimedContact,omitempty"`
	Claims          []Claim     `json:"claims"`
	Audits          []Audit     `json:"audits"`
	LastAction      *LastAction `json:"lastAction,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Claim is an unauthenticated assertion of ownership attached to an item.
// Claims are append-only: once recorded they are never mutated or deleted,
// even after the item is marked claimed.
type Claim struct {
	ID        int64     `json:"id"`
	ItemID    string    `json:"-"`
	FullName  string    `json:"fullName"`
	Contact   string    `json:"contact"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Audit records a single administrative action taken on an item.
// Append-only, like claims.
type Audit struct {
	ID            int64     `json:"id"`
	ItemID        string    `json:"-"`
	AdminID       int64     `json:"adminId"`
	AdminUsername string    `json:"adminUsername"`
	Action        string    `json:"action"`
	Note          string    `json:"note,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// LastAction is a denormalized snapshot of the most recent audit entry,
// kept on the item row for fast display.
type LastAction struct {
	Action        string    `json:"action"`
	AdminID       int64     `json:"adminId"`
	AdminUsername string    `json:"adminUsername"`
	Timestamp     time.Time `json:"timestamp"`
}

// Item statuses. pending is the initial state; claimed is normally reached
// from approved, but transitions are not restricted (admins may revert a
// wrong approval back to pending).
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusClaimed  = "claimed"
)

// DefaultItemName is used when a report omits the item name.
const DefaultItemName = "Unnamed item"

// ValidStatus reports whether s is one of the four item statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusClaimed:
		return true
	}
	return false
}

// AuditAction returns the action string recorded for an administrative
// patch: the new status when one was set, "update" when only a note was
// given, and "" when the patch warrants no audit entry at all.
func AuditAction(status, note string) string {
	if status != "" {
		return status
	}
	if note != "" {
		return "update"
	}
	return ""
}
