package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
)

// ReviewHandler exposes review endpoints.
type ReviewHandler struct {
	facade ReviewFacade
}

// NewReviewHandler creates ReviewHandler instance.
func NewReviewHandler(facade ReviewFacade) *ReviewHandler {
	return &ReviewHandler{facade: facade}
}

// Eligibility handles GET /api/reviews/eligibility?productId=.
func (h *ReviewHandler) Eligibility(c *gin.Context) {
	productID := strings.TrimSpace(c.Query("productId"))
	result, err := h.facade.ReviewEligibility(c.Request.Context(), productID, CurrentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EligibilityResponse(result))
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed review payload")
		return
	}

	review, err := h.facade.CreateReview(c.Request.Context(), CurrentUserID(c), model.ReviewDraft(req))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewResponse(review))
}

// Update handles PUT /api/reviews/:id.
func (h *ReviewHandler) Update(c *gin.Context) {
	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed review payload")
		return
	}

	review, err := h.facade.UpdateReview(c.Request.Context(), c.Param("id"), CurrentUserID(c), model.ReviewPatch(req))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewResponse(review))
}

// Delete handles DELETE /api/reviews/:id.
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteReview(c.Request.Context(), c.Param("id"), CurrentUserID(c)); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProductReviews handles GET /api/products/:id/reviews.
func (h *ReviewHandler) ProductReviews(c *gin.Context) {
	reviews, err := h.facade.ProductReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewsResponse(reviews))
}

// UserReviews handles GET /api/user/reviews.
func (h *ReviewHandler) UserReviews(c *gin.Context) {
	reviews, err := h.facade.UserReviews(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewsResponse(reviews))
}

// Rating handles GET /api/products/:id/rating.
func (h *ReviewHandler) Rating(c *gin.Context) {
	summary, err := h.facade.ProductRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RatingResponse(summary))
}
