package model

import "time"

// Service is a bookable offering. AvailableSlots holds time-of-day labels in
// "hh:mm AM" form; their order is the order they are presented to callers.
type Service struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=1,max=480"`
	Price           float64   `json:"price" bson:"price" validate:"min=0"`
	AvailableSlots  []string  `json:"available_slots" bson:"available_slots" validate:"required,min=1,dive,slot_label"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// HasSlot reports whether label is one of the service's bookable slots.
func (s *Service) HasSlot(label string) bool {
	for _, slot := range s.AvailableSlots {
		if slot == label {
			return true
		}
	}
	return false
}
