package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 0},
		Database: config.DatabaseConfig{Path: ":memory:"},
	}

	srv := NewServer(
		cfg,
		&logger,
		service.NewUserService(db, &logger),
		service.NewItemService(db, &logger),
		service.NewBookingService(db, bus, &logger),
		service.NewRequestService(db, &logger),
		export.NewExporter(&logger),
	)
	return srv.Handler()
}

func perform(t *testing.T, handler http.Handler, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID > 0 {
		req.Header.Set(userIDHeader, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[map[string]string](t, rec)
	return body["error"]
}

func createUser(t *testing.T, handler http.Handler, name, email string) models.User {
	t.Helper()
	rec := perform(t, handler, http.MethodPost, "/users", 0, map[string]string{"name": name, "email": email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.User](t, rec)
}

func createItem(t *testing.T, handler http.Handler, ownerID int64, name, description string) models.Item {
	t.Helper()
	rec := perform(t, handler, http.MethodPost, "/items", ownerID, map[string]any{
		"name": name, "description": description, "available": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.Item](t, rec)
}

// Полный жизненный цикл: заявка, подтверждение, повторное подтверждение,
// видимость для участников и постороннего.
func TestBookingLifecycle(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	booker := createUser(t, handler, "Петр", "petr@example.com")
	stranger := createUser(t, handler, "Олег", "oleg@example.com")
	item := createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная дрель")

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	end := start.Add(2 * time.Hour)

	rec := perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": end,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	booking := decode[models.Booking](t, rec)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	require.NotNil(t, booking.Item)
	require.NotNil(t, booking.Booker)
	assert.Equal(t, booker.ID, booking.Booker.ID)

	// Владелец подтверждает
	rec = perform(t, handler, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[models.Booking](t, rec)
	assert.Equal(t, models.StatusApproved, approved.Status)

	// Повторное подтверждение — ошибка, статус не меняется
	rec = perform(t, handler, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, decode[models.Booking](t, rec).Status)

	// Арендатор тоже видит бронирование
	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), booker.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Посторонний получает 404
	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), stranger.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingRejectPersists(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	booker := createUser(t, handler, "Петр", "petr@example.com")
	item := createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная")

	start := time.Now().Add(time.Hour).UTC()
	rec := perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	booking := decode[models.Booking](t, rec)

	rec = perform(t, handler, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=false", booking.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Статус REJECTED должен пережить повторное чтение из БД
	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/bookings/%d", booking.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusRejected, decode[models.Booking](t, rec).Status)
}

func TestBookingValidation(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	booker := createUser(t, handler, "Петр", "petr@example.com")
	item := createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная")

	start := time.Now().Add(time.Hour).UTC()

	// start == end
	rec := perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Своя вещь — конфликт
	rec = perform(t, handler, http.MethodPost, "/bookings", owner.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Недоступная вещь
	rec = perform(t, handler, http.MethodPatch, fmt.Sprintf("/items/%d", item.ID), owner.ID,
		map[string]any{"available": false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingListFilters(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	booker := createUser(t, handler, "Петр", "petr@example.com")
	item := createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная")

	now := time.Now().UTC()
	mkBooking := func(start, end time.Time) models.Booking {
		rec := perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
			"itemId": item.ID, "start": start, "end": end,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[models.Booking](t, rec)
	}

	past := mkBooking(now.Add(-3*time.Hour), now.Add(-time.Hour))
	current := mkBooking(now.Add(-time.Hour), now.Add(time.Hour))
	future := mkBooking(now.Add(time.Hour), now.Add(2*time.Hour))

	rec := perform(t, handler, http.MethodGet, "/bookings?state=CURRENT", booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]models.Booking](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, current.ID, got[0].ID)

	rec = perform(t, handler, http.MethodGet, "/bookings?state=PAST", booker.ID, nil)
	got = decode[[]models.Booking](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, past.ID, got[0].ID)

	rec = perform(t, handler, http.MethodGet, "/bookings?state=FUTURE", booker.ID, nil)
	got = decode[[]models.Booking](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, future.ID, got[0].ID)

	// ALL отсортирован по началу по убыванию
	rec = perform(t, handler, http.MethodGet, "/bookings", booker.ID, nil)
	got = decode[[]models.Booking](t, rec)
	require.Len(t, got, 3)
	assert.Equal(t, future.ID, got[0].ID)
	assert.Equal(t, current.ID, got[1].ID)
	assert.Equal(t, past.ID, got[2].ID)

	// Владелец видит те же бронирования через свой срез
	rec = perform(t, handler, http.MethodGet, "/bookings/owner?state=WAITING", owner.ID, nil)
	got = decode[[]models.Booking](t, rec)
	assert.Len(t, got, 3)
}

func TestBookingListValidation(t *testing.T) {
	handler := setupServer(t)
	booker := createUser(t, handler, "Петр", "petr@example.com")

	rec := perform(t, handler, http.MethodGet, "/bookings?state=SOMETHING", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", errMessage(t, rec))

	rec = perform(t, handler, http.MethodGet, "/bookings?from=-7", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Индекс первого элемента должен быть не отрицательным", errMessage(t, rec))

	rec = perform(t, handler, http.MethodGet, "/bookings?size=-2", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Количество элементов для отображения должно быть положительным", errMessage(t, rec))
}

func TestActingUserHeader(t *testing.T) {
	handler := setupServer(t)

	rec := perform(t, handler, http.MethodGet, "/items", 0, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set(userIDHeader, "abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set(userIDHeader, "-5")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUserCRUD(t *testing.T) {
	handler := setupServer(t)

	user := createUser(t, handler, "Иван", "ivan@example.com")

	// Дубликат email — конфликт
	rec := perform(t, handler, http.MethodPost, "/users", 0, map[string]string{
		"name": "Другой", "email": "ivan@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = perform(t, handler, http.MethodPatch, fmt.Sprintf("/users/%d", user.ID), 0,
		map[string]string{"name": "Иван Иванов"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Иван Иванов", decode[models.User](t, rec).Name)

	rec = perform(t, handler, http.MethodGet, "/users", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 1)

	rec = perform(t, handler, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), 0, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemSearchAndDetail(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	viewer := createUser(t, handler, "Петр", "petr@example.com")
	createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная дрель")
	item2 := createItem(t, handler, owner.ID, "Молоток", "Обычный молоток")

	rec := perform(t, handler, http.MethodGet, "/items/search?text=дРелЬ", viewer.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]models.Item](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Дрель", found[0].Name)

	// Пустой запрос — пустой список
	rec = perform(t, handler, http.MethodGet, "/items/search?text=", viewer.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Item](t, rec))

	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/items/%d", item2.ID), viewer.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[models.Item](t, rec)
	assert.Equal(t, item2.ID, detail.ID)
	assert.Nil(t, detail.LastBooking)

	// Владелец получает список своих вещей
	rec = perform(t, handler, http.MethodGet, "/items", owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Item](t, rec), 2)
}

func TestCommentsRequireFinishedBooking(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	booker := createUser(t, handler, "Петр", "petr@example.com")
	item := createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная")

	// Без завершенной аренды комментарий запрещен
	rec := perform(t, handler, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID,
		map[string]string{"text": "Отличная дрель"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Пользователь не арендовал данную вещь", errMessage(t, rec))

	// Завершенная подтвержденная аренда открывает комментарии
	start := time.Now().Add(-3 * time.Hour).UTC()
	rec = perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	booking := decode[models.Booking](t, rec)

	rec = perform(t, handler, http.MethodPatch,
		fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, handler, http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID,
		map[string]string{"text": "Отличная дрель"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	comment := decode[models.Comment](t, rec)
	assert.Equal(t, "Петр", comment.AuthorName)

	// Комментарий виден в карточке вещи
	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), booker.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[models.Item](t, rec)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Отличная дрель", detail.Comments[0].Text)
}

func TestItemLastNextBookingForOwner(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	booker := createUser(t, handler, "Петр", "petr@example.com")
	item := createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная")

	now := time.Now().UTC()
	mk := func(start, end time.Time) models.Booking {
		rec := perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
			"itemId": item.ID, "start": start, "end": end,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		return decode[models.Booking](t, rec)
	}

	past := mk(now.Add(-3*time.Hour), now.Add(-time.Hour))
	future := mk(now.Add(time.Hour), now.Add(2*time.Hour))

	// В карточку попадают только подтвержденные бронирования
	for _, b := range []models.Booking{past, future} {
		rec := perform(t, handler, http.MethodPatch,
			fmt.Sprintf("/bookings/%d?approved=true", b.ID), owner.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := perform(t, handler, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[models.Item](t, rec)
	require.NotNil(t, detail.LastBooking)
	require.NotNil(t, detail.NextBooking)
	assert.Equal(t, past.ID, detail.LastBooking.ID)
	assert.Equal(t, future.ID, detail.NextBooking.ID)

	// Для арендатора карточка без сведений о бронированиях
	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), booker.ID, nil)
	detail = decode[models.Item](t, rec)
	assert.Nil(t, detail.LastBooking)
	assert.Nil(t, detail.NextBooking)
}

func TestRequestBoard(t *testing.T) {
	handler := setupServer(t)

	requester := createUser(t, handler, "Петр", "petr@example.com")
	other := createUser(t, handler, "Иван", "ivan@example.com")

	rec := perform(t, handler, http.MethodPost, "/requests", requester.ID,
		map[string]string{"description": "Нужна дрель"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	request := decode[models.ItemRequest](t, rec)
	assert.NotZero(t, request.ID)

	// Другой пользователь закрывает запрос вещью
	rec = perform(t, handler, http.MethodPost, "/items", other.ID, map[string]any{
		"name": "Дрель", "description": "Аккумуляторная", "available": true, "requestId": request.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Свои запросы — с приложенными вещами
	rec = perform(t, handler, http.MethodGet, "/requests", requester.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	own := decode[[]models.ItemRequest](t, rec)
	require.Len(t, own, 1)
	require.Len(t, own[0].Items, 1)
	assert.Equal(t, "Дрель", own[0].Items[0].Name)

	// Чужие запросы не включают собственные
	rec = perform(t, handler, http.MethodGet, "/requests/all", requester.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.ItemRequest](t, rec))

	rec = perform(t, handler, http.MethodGet, "/requests/all", other.ID, nil)
	others := decode[[]models.ItemRequest](t, rec)
	require.Len(t, others, 1)

	rec = perform(t, handler, http.MethodGet, fmt.Sprintf("/requests/%d", request.ID), other.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, request.ID, decode[models.ItemRequest](t, rec).ID)
}

func TestExportBookings(t *testing.T) {
	handler := setupServer(t)

	owner := createUser(t, handler, "Иван", "ivan@example.com")
	booker := createUser(t, handler, "Петр", "petr@example.com")
	item := createItem(t, handler, owner.ID, "Дрель", "Аккумуляторная")

	start := time.Now().Add(time.Hour).UTC()
	rec := perform(t, handler, http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": start, "end": start.Add(time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, handler, http.MethodGet, "/admin/export/bookings", owner.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestHealth(t *testing.T) {
	handler := setupServer(t)
	rec := perform(t, handler, http.MethodGet, "/health", 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
