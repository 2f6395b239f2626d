package models

// Item — вещь, которую владелец выставляет для аренды.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner"`
	// Available управляет возможностью новых бронирований.
	Available bool `json:"available"`
	// RequestID ссылается на запрос, по которому вещь была создана.
	RequestID *int64 `json:"requestId,omitempty"`

	Comments    []*Comment  `json:"comments,omitempty"`
	LastBooking *BookingRef `json:"lastBooking,omitempty"`
	NextBooking *BookingRef `json:"nextBooking,omitempty"`
}
