package service

import (
	"context"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, domain.NewValidationError("Описание запроса не может быть пустым")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("Пользователь не найден")
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: userID,
		Items:       []*models.Item{},
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", userID).Msg("item request created")
	return request, nil
}

func (s *RequestService) GetOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *RequestService) GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error) {
	if err := validatePage(from, size); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetOtherRequests(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *RequestService) GetRequestByID(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.NewNotFoundError("Запрос не найден")
	}

	attached, err := s.attachItems(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return attached[0], nil
}

func (s *RequestService) checkUser(ctx context.Context, userID int64) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFoundError("Пользователь не найден")
	}
	return nil
}

// attachItems подгружает вещи, созданные в ответ на каждый запрос.
func (s *RequestService) attachItems(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequest, error) {
	if requests == nil {
		return []*models.ItemRequest{}, nil
	}
	for _, request := range requests {
		items, err := s.repo.GetItemsByRequest(ctx, request.ID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*models.Item{}
		}
		request.Items = items
	}
	return requests, nil
}
