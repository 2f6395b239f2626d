package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/export"

	"github.com/rs/zerolog"
)

// Server exposes the HTTP API of the sharing service.
type Server struct {
	cfg      *config.Config
	logger   *zerolog.Logger
	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
	requests domain.RequestService
	exporter *export.Exporter
	server   *http.Server
}

func NewServer(
	cfg *config.Config,
	logger *zerolog.Logger,
	users domain.UserService,
	items domain.ItemService,
	bookings domain.BookingService,
	requests domain.RequestService,
	exporter *export.Exporter,
) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		exporter: exporter,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("PATCH /users/{id}", s.handleUpdateUser)
	mux.HandleFunc("GET /users", s.handleGetUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)

	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("PATCH /items/{itemId}", s.handleUpdateItem)
	mux.HandleFunc("GET /items", s.handleGetOwnItems)
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("GET /items/{itemId}", s.handleGetItem)
	mux.HandleFunc("POST /items/{itemId}/comment", s.handleAddComment)

	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("PATCH /bookings/{bookingId}", s.handleApproveBooking)
	mux.HandleFunc("GET /bookings/owner", s.handleGetOwnerBookings)
	mux.HandleFunc("GET /bookings/{bookingId}", s.handleGetBooking)
	mux.HandleFunc("GET /bookings", s.handleGetBookerBookings)

	mux.HandleFunc("POST /requests", s.handleCreateRequest)
	mux.HandleFunc("GET /requests/all", s.handleGetOtherRequests)
	mux.HandleFunc("GET /requests/{requestId}", s.handleGetRequest)
	mux.HandleFunc("GET /requests", s.handleGetOwnRequests)

	mux.HandleFunc("GET /admin/export/bookings", s.handleExportBookings)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handler := requestIDMiddleware(loggingMiddleware(logger, metricsMiddleware(mux)))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return s
}

// Handler возвращает полный HTTP-обработчик сервера, используется в тестах.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
