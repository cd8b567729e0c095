package domain

import "time"

// OfferType classifies a job offer.
type OfferType string

const (
	OfferStage     OfferType = "stage"
	OfferFreelance OfferType = "freelance"
	OfferEmploi    OfferType = "emploi"
)

// Valid reports whether t is a known offer type.
func (t OfferType) Valid() bool {
	switch t {
	case OfferStage, OfferFreelance, OfferEmploi:
		return true
	}
	return false
}

// Offer is a job, internship or gig published by a company.
type Offer struct {
	ID           string    `json:"id"`
	EntrepriseID string    `json:"entrepriseId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         OfferType `json:"type"`
	Location     string    `json:"location"`
	Requirements []string  `json:"requirements"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
