package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulagohealth/mlaf/internal/db"
	"github.com/mulagohealth/mlaf/internal/model"
)

func TestAppendClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, NewItem{Name: "Wallet"})
	require.NoError(t, err)

	claim, err := AppendClaim(ctx, database, item.ID, "Jane", "+256700000002", "lost it Tuesday")
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, "Jane", claim.FullName)
	assert.Equal(t, "+256700000002", claim.Contact)
	assert.Equal(t, "lost it Tuesday", claim.Note)
	assert.False(t, claim.Timestamp.IsZero())
}

func TestAppendClaimGrowsByOne(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, NewItem{Name: "Wallet"})
	require.NoError(t, err)

	first, err := AppendClaim(ctx, database, item.ID, "Jane", "+256700000002", "")
	require.NoError(t, err)

	claims, err := ListClaims(ctx, database, item.ID)
	require.NoError(t, err)
	require.Len(t, claims, 1)

	_, err = AppendClaim(ctx, database, item.ID, "Joe", "+256700000003", "")
	require.NoError(t, err)

	claims, err = ListClaims(ctx, database, item.ID)
	require.NoError(t, err)
	require.Len(t, claims, 2)

	// Prior claims are unmodified.
	assert.Equal(t, first.ID, claims[0].ID)
	assert.Equal(t, "Jane", claims[0].FullName)
	assert.Equal(t, "+256700000002", claims[0].Contact)

	// Item status is untouched by claims.
	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestAppendClaimOnAnyStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, NewItem{Name: "Wallet"})
	require.NoError(t, err)

	_, err = PatchItem(ctx, database, item.ID, ItemPatch{
		Status:        strptr(model.StatusRejected),
		AdminID:       1,
		AdminUsername: "admin",
	})
	require.NoError(t, err)

	// Claims land regardless of status; admins adjudicate later.
	claim, err := AppendClaim(ctx, database, item.ID, "Jane", "+256700000002", "")
	require.NoError(t, err)
	require.NotNil(t, claim)
}

func TestAppendClaimItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	claim, err := AppendClaim(context.Background(), database, "no-such-id", "Jane", "+256700000002", "")
	require.NoError(t, err)
	assert.Nil(t, claim)
}

func TestClaimsCascadeWithItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, NewItem{Name: "Wallet"})
	require.NoError(t, err)
	_, err = AppendClaim(ctx, database, item.ID, "Jane", "+256700000002", "")
	require.NoError(t, err)

	_, err = database.Exec(`DELETE FROM items WHERE id = ?`, item.ID)
	require.NoError(t, err)

	claims, err := ListClaims(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Empty(t, claims)
}
