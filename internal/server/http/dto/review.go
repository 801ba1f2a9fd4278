package dto

import "time"

// CreateReviewRequest is the payload of a new review.
type CreateReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

// UpdateReviewRequest changes rating and optionally the text.
type UpdateReviewRequest struct {
	Rating int     `json:"rating"`
	Text   *string `json:"text"`
}

// ReviewResponse represents a stored review.
type ReviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EligibilityResponse tells whether the caller may review a product.
type EligibilityResponse struct {
	CanReview    bool   `json:"canReview"`
	Reason       string `json:"reason,omitempty"`
	HasReviewed  bool   `json:"hasReviewed"`
	HasPurchased bool   `json:"hasPurchased"`
}

// RatingResponse is the aggregate rating of a product.
type RatingResponse struct {
	ProductID string  `json:"productId"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}
