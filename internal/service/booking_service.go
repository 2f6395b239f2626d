package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService владеет жизненным циклом бронирования: валидация,
// переходы статусов и выборки по состоянию для арендатора и владельца.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if !start.Before(end) {
		return nil, domain.NewValidationError("Время начала бронирования указано после окончания бронирования или равно ему")
	}

	booker, err := s.repo.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if booker == nil {
		return nil, domain.NewNotFoundError("Пользователь не найден")
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFoundError("Вещь не найдена")
	}

	if booker.ID == item.OwnerID {
		return nil, domain.NewConflictError("Пользователь не может арендовать у себя")
	}
	if !item.Available {
		return nil, domain.NewValidationError("Бронирование вещи недоступно в данный момент")
	}

	booking := &models.Booking{
		Start:  start,
		End:    end,
		Status: models.StatusWaiting,
		Item:   item,
		Booker: booker,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", item.ID).
		Msg("booking created, waiting for owner approval")
	s.publishEvent(events.EventBookingCreated, booking)

	return booking, nil
}

// SetApprovedByOwner подтверждает или отклоняет бронирование. Проверка
// владельца намеренно возвращает "не найдено", чтобы не раскрывать
// существование чужих бронирований.
func (s *BookingService) SetApprovedByOwner(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Пользователь не найден")
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.NewNotFoundError("Бронирование не найдено")
	}
	if booking.Item.OwnerID != userID {
		return nil, domain.NewNotFoundError("Забронированная вещь не принадлежит пользователю, желающему внести изменения")
	}

	if approved {
		if booking.Status == models.StatusApproved {
			return nil, domain.NewValidationError("Бронирование уже подтверждено, при необходимости можно отменить его")
		}
		booking.Status = models.StatusApproved
	} else {
		if booking.Status == models.StatusRejected {
			return nil, domain.NewValidationError("Бронирование отменено, изменение статуса повторно не возможно")
		}
		booking.Status = models.StatusRejected
	}

	if err := s.repo.UpdateBookingStatus(ctx, booking.ID, booking.Status); err != nil {
		return nil, err
	}

	eventType := events.EventBookingApproved
	if !approved {
		eventType = events.EventBookingRejected
	}
	s.logger.Info().Int64("booking_id", booking.ID).Str("status", booking.Status).Msg("booking status updated")
	s.publishEvent(eventType, booking)

	return booking, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Пользователь не найден")
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.NewNotFoundError("Бронирование не найдено")
	}
	if booking.BookerID() != userID && booking.Item.OwnerID != userID {
		return nil, domain.NewNotFoundError("Бронирование или вещь не принадлежит пользователю")
	}
	return booking, nil
}

func (s *BookingService) GetAllBookingByUser(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error) {
	filter, err := s.buildFilter(ctx, userID, state, from, size)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.GetBookingsForBooker(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return nonNil(bookings), nil
}

func (s *BookingService) GetAllBookingByOwner(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error) {
	filter, err := s.buildFilter(ctx, userID, state, from, size)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.GetBookingsForOwner(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return nonNil(bookings), nil
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := s.repo.GetAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(bookings), nil
}

func (s *BookingService) buildFilter(ctx context.Context, userID int64, state string, from, size int) (domain.BookingFilter, error) {
	parsed, err := ParseState(state)
	if err != nil {
		return domain.BookingFilter{}, err
	}
	if err := validatePage(from, size); err != nil {
		return domain.BookingFilter{}, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return domain.BookingFilter{}, err
	}
	if user == nil {
		return domain.BookingFilter{}, domain.NewNotFoundError("Пользователь не найден")
	}

	return domain.BookingFilter{State: parsed, Now: s.now(), From: from, Size: size}, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		ItemID:     booking.ItemID(),
		ItemName:   booking.Item.Name,
		OwnerID:    booking.Item.OwnerID,
		BookerID:   booking.BookerID(),
		BookerName: booking.Booker.Name,
		Status:     booking.Status,
		Start:      booking.Start,
		End:        booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func nonNil(bookings []*models.Booking) []*models.Booking {
	if bookings == nil {
		return []*models.Booking{}
	}
	return bookings
}
