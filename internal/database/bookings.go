package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingSelect = `SELECT b.id, b.start_date, b.end_date, b.status,
       i.id, i.name, i.description, i.owner_id, i.is_available, i.request_id,
       u.id, u.name, u.email, u.telegram_id
  FROM bookings b
  JOIN items i ON i.id = b.item_id
  JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := utc(time.Now())
	result, err := db.ExecContext(ctx, query,
		booking.ItemID(),
		booking.BookerID(),
		utc(booking.Start),
		utc(booking.End),
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Start = utc(booking.Start)
	booking.End = utc(booking.End)
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id)
	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, status, utc(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}

// GetBookingsForBooker возвращает страницу бронирований пользователя,
// отфильтрованную по состоянию и отсортированную по началу по убыванию.
func (db *DB) GetBookingsForBooker(ctx context.Context, bookerID int64, filter domain.BookingFilter) ([]*models.Booking, error) {
	return db.queryBookingsFiltered(ctx, `b.booker_id = ?`, bookerID, filter)
}

// GetBookingsForOwner возвращает страницу бронирований всех вещей владельца.
func (db *DB) GetBookingsForOwner(ctx context.Context, ownerID int64, filter domain.BookingFilter) ([]*models.Booking, error) {
	return db.queryBookingsFiltered(ctx, `i.owner_id = ?`, ownerID, filter)
}

func (db *DB) queryBookingsFiltered(ctx context.Context, scope string, subjectID int64, filter domain.BookingFilter) ([]*models.Booking, error) {
	where := ` WHERE ` + scope
	args := []interface{}{subjectID}
	now := utc(filter.Now)

	switch filter.State {
	case models.StateAll:
	case models.StateCurrent:
		where += ` AND b.start_date <= ? AND b.end_date >= ?`
		args = append(args, now, now)
	case models.StatePast:
		where += ` AND b.end_date < ?`
		args = append(args, now)
	case models.StateFuture:
		where += ` AND b.start_date > ?`
		args = append(args, now)
	case models.StateWaiting, models.StateRejected:
		where += ` AND b.status = ?`
		args = append(args, filter.State)
	default:
		return nil, fmt.Errorf("unsupported booking state filter: %q", filter.State)
	}

	query := bookingSelect + where + ` ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Size, filter.From)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, bookingSelect+` ORDER BY b.start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// HasFinishedBooking сообщает, была ли у пользователя завершившаяся
// подтвержденная аренда вещи. Используется как условие для комментария.
func (db *DB) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status = ? AND end_date < ?`
	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, models.StatusApproved, utc(now)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

func (db *DB) GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingRef, error) {
	query := `SELECT id, booker_id FROM bookings
              WHERE item_id = ? AND status = ? AND end_date < ?
              ORDER BY end_date DESC LIMIT 1`
	return db.queryBookingRef(ctx, query, itemID, models.StatusApproved, utc(now))
}

func (db *DB) GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingRef, error) {
	query := `SELECT id, booker_id FROM bookings
              WHERE item_id = ? AND status = ? AND start_date > ?
              ORDER BY start_date ASC LIMIT 1`
	return db.queryBookingRef(ctx, query, itemID, models.StatusApproved, utc(now))
}

func (db *DB) queryBookingRef(ctx context.Context, query string, args ...interface{}) (*models.BookingRef, error) {
	var ref models.BookingRef
	err := db.QueryRowContext(ctx, query, args...).Scan(&ref.ID, &ref.BookerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking ref: %w", err)
	}
	return &ref, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{Item: &models.Item{}, Booker: &models.User{}}
	err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.Status,
		&b.Item.ID, &b.Item.Name, &b.Item.Description, &b.Item.OwnerID, &b.Item.Available, &b.Item.RequestID,
		&b.Booker.ID, &b.Booker.Name, &b.Booker.Email, &b.Booker.TelegramID,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func collectBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
