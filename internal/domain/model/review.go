package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Eligibility reasons.
const (
	ReasonAlreadyReviewed = "already reviewed"
	ReasonNotDelivered    = "not purchased/delivered"
)

// Review is a buyer opinion about a delivered product.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewEligibility is computed on demand and never stored.
type ReviewEligibility struct {
	CanReview    bool
	Reason       string
	HasReviewed  bool
	HasPurchased bool
}

// RatingSummary aggregates the reviews of a product.
type RatingSummary struct {
	ProductID string
	Average   float64
	Count     int
}

// ValidRating reports whether rating is within the accepted scale.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
