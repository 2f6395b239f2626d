package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// userIDHeader — заголовок с идентификатором действующего пользователя.
const userIDHeader = "X-Sharer-User-Id"

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// respondError отображает доменную ошибку в HTTP-статус.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	var nfErr *domain.NotFoundError
	var cErr *domain.ConflictError

	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.As(err, &nfErr):
		writeError(w, http.StatusNotFound, nfErr.Message)
	case errors.As(err, &cErr):
		writeError(w, http.StatusConflict, cErr.Message)
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// actingUser читает X-Sharer-User-Id; значение должно быть положительным числом.
func actingUser(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(userIDHeader))
	if raw == "" {
		return 0, domain.NewValidationError("Заголовок X-Sharer-User-Id обязателен")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("Заголовок X-Sharer-User-Id должен быть положительным числом")
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(fmt.Sprintf("Некорректный идентификатор в пути: %s", r.PathValue(name)))
	}
	return id, nil
}

// queryInt разбирает числовой query-параметр; границы проверяет сервис.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(fmt.Sprintf("Параметр %s должен быть числом", name))
	}
	return v, nil
}

func pageParams(r *http.Request) (int, int, error) {
	from, err := queryInt(r, "from", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err := queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return from, size, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("Некорректное тело запроса")
	}
	return nil
}
