package api

import (
	"net/http"
	"strconv"
	"time"

	"shareit/internal/domain"
	"shareit/internal/export"
)

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body struct {
		ItemID int64     `json:"itemId"`
		Start  time.Time `json:"start"`
		End    time.Time `json:"end"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), userID, body.ItemID, body.Start, body.End)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		s.respondError(w, r, domain.NewValidationError("Параметр approved должен быть true или false"))
		return
	}

	booking, err := s.bookings.SetApprovedByOwner(r.Context(), userID, bookingID, approved)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	booking, err := s.bookings.GetBookingByID(r.Context(), userID, bookingID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBookerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	from, size, err := pageParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookings, err := s.bookings.GetAllBookingByUser(r.Context(), userID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleGetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	from, size, err := pageParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookings, err := s.bookings.GetAllBookingByOwner(r.Context(), userID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleExportBookings отдает xlsx-выгрузку всех бронирований.
func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if _, err := actingUser(r); err != nil {
		s.respondError(w, r, err)
		return
	}

	bookings, err := s.bookings.GetAllBookings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.FileName(time.Now()))

	if err := s.exporter.WriteBookings(w, bookings); err != nil {
		s.logger.Error().Err(err).Msg("bookings export failed")
	}
}
