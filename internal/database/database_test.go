package database

import (
	"context"
	"os"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustCreateUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func mustCreateItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: name + " описание", OwnerID: ownerID, Available: available}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func mustCreateBooking(t *testing.T, db *DB, item *models.Item, booker *models.User, start, end time.Time, status string) *models.Booking {
	t.Helper()
	booking := &models.Booking{Start: start, End: end, Status: status, Item: item, Booker: booker}
	require.NoError(t, db.CreateBooking(context.Background(), booking))
	return booking
}
