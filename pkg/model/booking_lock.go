package model

import "time"

// BookingLock is an advisory lock on one (service, date, slot) coordinate.
// It narrows the race window while a confirmation's availability check and
// insert run; the transactional duplicate check remains the source of truth.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
