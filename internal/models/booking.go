package models

import "time"

type Booking struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Item   *Item     `json:"item"`
	Booker *User     `json:"booker"`
}

// BookingRef is the short form embedded into item responses.
type BookingRef struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// ItemID returns the referenced item id, tolerating a nil Item.
func (b *Booking) ItemID() int64 {
	if b.Item == nil {
		return 0
	}
	return b.Item.ID
}

// BookerID returns the booker id, tolerating a nil Booker.
func (b *Booking) BookerID() int64 {
	if b.Booker == nil {
		return 0
	}
	return b.Booker.ID
}
