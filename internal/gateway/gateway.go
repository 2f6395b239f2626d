package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const userIDHeader = "X-Sharer-User-Id"

// Gateway валидирует входящие запросы и ограничивает их частоту, после
// чего пересылает без изменений на основной сервис.
type Gateway struct {
	cfg     *config.Config
	logger  *zerolog.Logger
	limiter domain.RateLimiter
	proxy   *httputil.ReverseProxy
	server  *http.Server
}

func New(cfg *config.Config, logger *zerolog.Logger, limiter domain.RateLimiter) (*Gateway, error) {
	target, err := url.Parse(cfg.Gateway.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", cfg.Gateway.ServerURL, err)
	}

	g := &Gateway{
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
		proxy:   httputil.NewSingleHostReverseProxy(target),
	}

	g.proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		writeError(w, http.StatusBadGateway, "Сервис временно недоступен")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", g.handle)

	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return g, nil
}

// Handler возвращает обработчик шлюза, используется в тестах.
func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

func (g *Gateway) Start() error {
	g.logger.Info().Str("addr", g.server.Addr).Str("upstream", g.cfg.Gateway.ServerURL).Msg("gateway listening")
	if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

func (g *Gateway) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Request-Id") == "" {
		r.Header.Set("X-Request-Id", uuid.NewString())
	}

	if !requiresActingUser(r.URL.Path) {
		g.proxy.ServeHTTP(w, r)
		return
	}

	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := g.checkBody(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := g.cfg.Gateway.RateLimit.Requests
	window := time.Duration(g.cfg.Gateway.RateLimit.Window) * time.Second
	allowed, err := g.limiter.Allow(r.Context(), userID, limit, window)
	if err != nil {
		// Лимитер с failover сам переживает отказ Redis; сюда попадает
		// только полный отказ — пропускаем запрос, но фиксируем проблему.
		g.logger.Error().Err(err).Int64("user_id", userID).Msg("rate limiter unavailable")
	} else if !allowed {
		metrics.IncRateLimited()
		writeError(w, http.StatusTooManyRequests, "Превышен лимит запросов, попробуйте позже")
		return
	}

	g.proxy.ServeHTTP(w, r)
}

// requiresActingUser: операции над вещами, бронированиями и запросами
// всегда выполняются от имени пользователя. Справочник пользователей и
// health-check идут без заголовка.
func requiresActingUser(path string) bool {
	for _, prefix := range []string{"/items", "/bookings", "/requests", "/admin"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func actingUser(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(userIDHeader))
	if raw == "" {
		return 0, fmt.Errorf("Заголовок X-Sharer-User-Id обязателен")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("Заголовок X-Sharer-User-Id должен быть положительным числом")
	}
	return id, nil
}

// checkBody отклоняет заведомо некорректный JSON до пересылки.
func (g *Gateway) checkBody(r *http.Request) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPatch {
		return nil
	}
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("Не удалось прочитать тело запроса")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if !json.Valid(body) {
		return fmt.Errorf("Некорректное тело запроса")
	}
	return nil
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
