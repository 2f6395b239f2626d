package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewItemService(repo domain.Repository, logger *zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, logger: logger, now: time.Now}
}

func (s *ItemService) CreateItem(ctx context.Context, userID int64, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, domain.NewValidationError("Название вещи не может быть пустым")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Пользователь не найден")
	}

	if item.RequestID != nil {
		request, err := s.repo.GetRequestByID(ctx, *item.RequestID)
		if err != nil {
			return nil, err
		}
		if request == nil {
			return nil, domain.NewNotFoundError("Запрос не найден")
		}
	}

	item.OwnerID = userID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", userID).Msg("item created")
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID int64, patch domain.ItemPatch) (*models.Item, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Пользователь не найден")
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFoundError("Вещи с указанным Id не существует")
	}
	// Чужую вещь нельзя править; существование не раскрываем.
	if item.OwnerID != userID {
		return nil, domain.NewNotFoundError("Вещь с указанным Id не принадлежит данному пользователю")
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Msg("item updated")
	return item, nil
}

func (s *ItemService) GetItemByID(ctx context.Context, userID, itemID int64) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFoundError("Вещи с указанным Id не существует")
	}
	if err := s.enrich(ctx, item, userID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) GetAllItemsUser(ctx context.Context, userID int64) ([]*models.Item, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Пользователя с указанным Id не существует")
	}

	items, err := s.repo.GetItemsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := s.enrich(ctx, item, userID); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

// SearchAvailableItems: пустой запрос возвращает пустой список, а не все вещи.
func (s *ItemService) SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	items, err := s.repo.SearchAvailableItems(ctx, text)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

// AddComment разрешен только пользователю с завершившейся подтвержденной
// арендой вещи.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("Текст комментария не может быть пустым")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Пользователь не найден")
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFoundError("Вещи с указанным Id не существует")
	}

	rented, err := s.repo.HasFinishedBooking(ctx, userID, itemID, s.now())
	if err != nil {
		return nil, err
	}
	if !rented {
		return nil, domain.NewValidationError("Пользователь не арендовал данную вещь")
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: user.Name,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// enrich подгружает комментарии, а для владельца — последнее и ближайшее
// бронирования вещи.
func (s *ItemService) enrich(ctx context.Context, item *models.Item, userID int64) error {
	comments, err := s.repo.GetCommentsByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	item.Comments = comments

	if item.OwnerID != userID {
		return nil
	}

	now := s.now()
	if item.LastBooking, err = s.repo.GetLastBooking(ctx, item.ID, now); err != nil {
		return err
	}
	if item.NextBooking, err = s.repo.GetNextBooking(ctx, item.ID, now); err != nil {
		return err
	}
	return nil
}
