package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// BookingFilter describes a state-filtered, paginated booking listing.
// Now is passed explicitly so time-relative states are testable.
type BookingFilter struct {
	State string
	Now   time.Time
	From  int
	Size  int
}

// ItemPatch carries partial item updates; nil fields are left untouched.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

type Repository interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// items
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error)
	GetItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)

	// comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)

	// item requests
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, requesterID int64, from, size int) ([]*models.ItemRequest, error)

	// bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	GetBookingsForBooker(ctx context.Context, bookerID int64, filter BookingFilter) ([]*models.Booking, error)
	GetBookingsForOwner(ctx context.Context, ownerID int64, filter BookingFilter) ([]*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
	GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingRef, error)
	GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingRef, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter answers whether one more request from the user fits the window.
type RateLimiter interface {
	Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	SetApprovedByOwner(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error)
	GetBookingByID(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	GetAllBookingByUser(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error)
	GetAllBookingByOwner(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, userID int64, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, userID, itemID int64, patch ItemPatch) (*models.Item, error)
	GetItemByID(ctx context.Context, userID, itemID int64) (*models.Item, error)
	GetAllItemsUser(ctx context.Context, userID int64) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error)
	AddComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error)
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error)
	GetOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error)
	GetRequestByID(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error)
}
