package service

import (
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// ParseState validates the state query token. Blank defaults to ALL,
// anything outside the closed set is rejected with the message the API
// contract fixes.
func ParseState(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return models.StateAll, nil
	}
	switch raw {
	case models.StateAll, models.StateCurrent, models.StatePast,
		models.StateFuture, models.StateWaiting, models.StateRejected:
		return raw, nil
	}
	return "", domain.NewValidationError("Unknown state: UNSUPPORTED_STATUS")
}

func validatePage(from, size int) error {
	if from < 0 {
		return domain.NewValidationError("Индекс первого элемента должен быть не отрицательным")
	}
	if size <= 0 {
		return domain.NewValidationError("Количество элементов для отображения должно быть положительным")
	}
	return nil
}
