package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// ReviewUseCase gates and stores product reviews.
type ReviewUseCase struct {
	reviews repository.ReviewRepository
	orders  repository.OrderRepository
	log     *slog.Logger
	now     func() time.Time
}

// NewReviewUseCase constructs ReviewUseCase.
func NewReviewUseCase(reviews repository.ReviewRepository, orders repository.OrderRepository, log *slog.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		reviews: reviews,
		orders:  orders,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CheckEligibility reports whether userID may review productID. Only a
// DELIVERED order counts as a purchase.
func (u *ReviewUseCase) CheckEligibility(ctx context.Context, productID, userID string) (_ model.ReviewEligibility, err error) {
	ctx, span := tracer.Start(ctx, "ReviewUseCase.CheckEligibility", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.String("user.id", userID),
	))
	defer func() { endSpan(span, err) }()

	if productID == "" {
		return model.ReviewEligibility{}, domainErrors.ErrMissingProductID
	}

	var result model.ReviewEligibility

	_, findErr := u.reviews.FindByProductAndUser(ctx, productID, userID)
	switch {
	case findErr == nil:
		result.HasReviewed = true
	case !errors.Is(findErr, domainErrors.ErrReviewNotFound):
		return model.ReviewEligibility{}, domainErrors.Dependency("find review", findErr)
	}

	purchased, err := u.orders.HasDeliveredPurchase(ctx, userID, productID)
	if err != nil {
		return model.ReviewEligibility{}, domainErrors.Dependency("check delivered purchase", err)
	}
	result.HasPurchased = purchased

	switch {
	case result.HasReviewed:
		result.Reason = model.ReasonAlreadyReviewed
	case !result.HasPurchased:
		result.Reason = model.ReasonNotDelivered
	default:
		result.CanReview = true
	}
	span.SetAttributes(attribute.Bool("review.eligible", result.CanReview))
	return result, nil
}

// Create stores a review after re-checking eligibility.
func (u *ReviewUseCase) Create(ctx context.Context, userID string, draft model.ReviewDraft) (*model.Review, error) {
	if !model.ValidRating(draft.Rating) {
		return nil, domainErrors.ErrInvalidRating
	}

	eligibility, err := u.CheckEligibility(ctx, draft.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if eligibility.HasReviewed {
		return nil, domainErrors.ErrAlreadyReviewed
	}
	if !eligibility.CanReview {
		return nil, domainErrors.ErrReviewNotAllowed
	}

	now := u.now()
	review := &model.Review{
		ID:        uuid.NewString(),
		ProductID: draft.ProductID,
		UserID:    userID,
		Rating:    draft.Rating,
		Text:      draft.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.reviews.Create(ctx, review); err != nil {
		return nil, domainErrors.Dependency("create review", err)
	}

	u.log.Info("review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.String("user_id", userID),
	)
	return review, nil
}

// Update changes rating and optionally text of the caller's own review.
func (u *ReviewUseCase) Update(ctx context.Context, reviewID, userID string, patch model.ReviewPatch) (*model.Review, error) {
	if !model.ValidRating(patch.Rating) {
		return nil, domainErrors.ErrInvalidRating
	}

	review, err := u.owned(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	review.Rating = patch.Rating
	if patch.Text != nil {
		review.Text = *patch.Text
	}
	review.UpdatedAt = u.now()

	if err := u.reviews.Update(ctx, review); err != nil {
		return nil, domainErrors.Dependency("update review", err)
	}
	return review, nil
}

// Delete removes the caller's own review.
func (u *ReviewUseCase) Delete(ctx context.Context, reviewID, userID string) error {
	if _, err := u.owned(ctx, reviewID, userID); err != nil {
		return err
	}
	if err := u.reviews.Delete(ctx, reviewID); err != nil {
		return domainErrors.Dependency("delete review", err)
	}
	return nil
}

// ListByProduct returns the reviews of a product, newest first.
func (u *ReviewUseCase) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	reviews, err := u.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, domainErrors.Dependency("list product reviews", err)
	}
	return reviews, nil
}

// ListByUser returns the reviews written by a user, newest first.
func (u *ReviewUseCase) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	reviews, err := u.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, domainErrors.Dependency("list user reviews", err)
	}
	return reviews, nil
}

// Rating returns the average rating of a product.
func (u *ReviewUseCase) Rating(ctx context.Context, productID string) (model.RatingSummary, error) {
	summary, err := u.reviews.RatingSummary(ctx, productID)
	if err != nil {
		return model.RatingSummary{}, domainErrors.Dependency("rating summary", err)
	}
	return summary, nil
}

func (u *ReviewUseCase) owned(ctx context.Context, reviewID, userID string) (*model.Review, error) {
	review, err := u.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, domainErrors.Dependency("load review", err)
	}
	if review.UserID != userID {
		return nil, domainErrors.ErrNotReviewAuthor
	}
	return review, nil
}
