package domain

import "time"

const ApplicationPending = "pending"

// Application records a user applying to an offer.
type Application struct {
	ID        string    `json:"id"`
	OfferID   string    `json:"offerId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
