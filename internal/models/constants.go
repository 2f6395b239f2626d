package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

const (
	// DefaultPageSize размер страницы списков по умолчанию
	DefaultPageSize = 20

	// RateLimitRequests количество запросов в окне на пользователя
	RateLimitRequests = 30

	// RateLimitWindow окно ограничения частоты запросов, в секундах
	RateLimitWindow = 60
)
