package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"shareit/internal/events"
	"shareit/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender покрывает часть tgbotapi.BotAPI, нужную для отправки сообщений.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// UserGetter отдает пользователя для доставки уведомления.
type UserGetter interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Notifier слушает события бронирований и рассылает уведомления в Telegram.
// Пользователи без привязанного telegram_id пропускаются.
type Notifier struct {
	bot    sender
	repo   UserGetter
	logger *zerolog.Logger
}

func New(token string, debug bool, repo UserGetter, logger *zerolog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = debug

	logger.Info().Str("bot", api.Self.UserName).Msg("telegram notifier connected")
	return &Notifier{bot: api, repo: repo, logger: logger}, nil
}

func newWithSender(bot sender, repo UserGetter, logger *zerolog.Logger) *Notifier {
	return &Notifier{bot: bot, repo: repo, logger: logger}
}

// Subscribe подписывает нотификатор на события шины.
func (n *Notifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.handleCreated)
	bus.Subscribe(events.EventBookingApproved, n.handleDecision)
	bus.Subscribe(events.EventBookingRejected, n.handleDecision)
}

// handleCreated уведомляет владельца вещи о новой заявке.
func (n *Notifier) handleCreated(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	text := fmt.Sprintf("Новая заявка на «%s» от %s, %s — %s",
		payload.ItemName, payload.BookerName,
		payload.Start.Format("02.01.2006 15:04"), payload.End.Format("02.01.2006 15:04"))
	return n.send(payload.OwnerID, text)
}

// handleDecision уведомляет арендатора о решении владельца.
func (n *Notifier) handleDecision(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	var text string
	if event.Type == events.EventBookingApproved {
		text = fmt.Sprintf("Бронирование «%s» подтверждено владельцем", payload.ItemName)
	} else {
		text = fmt.Sprintf("Бронирование «%s» отклонено владельцем", payload.ItemName)
	}
	return n.send(payload.BookerID, text)
}

func (n *Notifier) send(userID int64, text string) error {
	user, err := n.repo.GetUserByID(context.Background(), userID)
	if err != nil {
		return err
	}
	if user == nil || user.TelegramID == 0 {
		return nil
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(user.TelegramID, text)); err != nil {
		n.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to send telegram notification")
		return err
	}
	return nil
}
