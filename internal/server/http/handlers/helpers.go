package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
	"github.com/polkiloo/marketplace/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

type errorCode struct {
	err  error
	code string
}

// Specific codes are checked before the category fallbacks below.
var errorCodes = []errorCode{
	{domainErrors.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{domainErrors.ErrInvalidTransition, "INVALID_TRANSITION"},
	{domainErrors.ErrStaleStatus, "STALE_STATUS"},
	{domainErrors.ErrAlreadyReviewed, "ALREADY_REVIEWED"},
	{domainErrors.ErrAlreadyExists, "ALREADY_EXISTS"},
	{domainErrors.ErrRequestInFlight, "REQUEST_IN_FLIGHT"},
	{domainErrors.ErrIdempotencyReused, "IDEMPOTENCY_KEY_REUSED"},
	{domainErrors.ErrOrderNotFound, "ORDER_NOT_FOUND"},
	{domainErrors.ErrProductNotFound, "PRODUCT_NOT_FOUND"},
	{domainErrors.ErrReviewNotFound, "REVIEW_NOT_FOUND"},
	{domainErrors.ErrNotOrderParticipant, "NOT_ORDER_PARTICIPANT"},
	{domainErrors.ErrNotOrderSeller, "NOT_ORDER_SELLER"},
	{domainErrors.ErrNotOrderBuyer, "NOT_ORDER_BUYER"},
	{domainErrors.ErrNotReviewAuthor, "NOT_REVIEW_AUTHOR"},
	{domainErrors.ErrReviewNotAllowed, "REVIEW_NOT_ALLOWED"},
}

var categoryStatus = []struct {
	category error
	status   int
	code     string
}{
	// Dependency comes first: a joined error carrying a failed collaborator
	// means the outcome is uncertain and the client should retry later.
	{domainErrors.ErrDependency, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE"},
	{domainErrors.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
	{domainErrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domainErrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domainErrors.ErrConflict, http.StatusConflict, "CONFLICT"},
}

// WriteError maps a domain error to its HTTP status and JSON body.
// The error is attached to the gin context so the request logger records it.
func WriteError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	body := dto.ErrorResponse{Error: "internal error", Code: "INTERNAL"}
	for _, entry := range categoryStatus {
		if errors.Is(err, entry.category) {
			status = entry.status
			body = dto.ErrorResponse{Error: err.Error(), Code: entry.code}
			break
		}
	}
	if status == http.StatusServiceUnavailable {
		body.Error = domainErrors.ErrDependency.Error()
	} else {
		for _, entry := range errorCodes {
			if errors.Is(err, entry.err) {
				body.Code = entry.code
				break
			}
		}
	}

	var stockErr *domainErrors.StockError
	if errors.As(err, &stockErr) {
		body.ProductID = stockErr.ProductID
	}

	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg, Code: "MALFORMED_REQUEST"})
}
