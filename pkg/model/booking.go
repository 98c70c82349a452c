package model

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is one confirmed or cancelled appointment. Date is a calendar day
// in YYYY-MM-DD form, Time a slot label from the referenced service.
// Bookings are never deleted; cancellation flips Status.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserName  string    `json:"user_name" bson:"user_name" validate:"required,min=1,max=100"`
	ServiceID string    `json:"service_id" bson:"service_id" validate:"required"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Time      string    `json:"time" bson:"time" validate:"required,slot_label"`
	Status    string    `json:"status" bson:"status" validate:"omitempty,oneof=confirmed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BookingView is the management listing shape, with the service name
// denormalized in.
type BookingView struct {
	ID          string `json:"id"`
	UserName    string `json:"user_name"`
	ServiceName string `json:"service_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
}
