package models

import "time"

// ItemRequest — запрос пользователя на вещь, которой ещё нет в каталоге.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requesterId"`
	CreatedAt   time.Time `json:"created"`
	// Items, созданные другими пользователями в ответ на запрос.
	Items []*Item `json:"items"`
}
