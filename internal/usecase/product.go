package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// ProductUseCase registers and looks up products.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// Create registers a product owned by sellerID.
func (u *ProductUseCase) Create(ctx context.Context, sellerID string, draft model.ProductDraft) (*model.Product, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" || draft.Price.IsNegative() || draft.Stock < 0 {
		return nil, domainErrors.ErrInvalidProduct
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:        uuid.NewString(),
		SellerID:  sellerID,
		Title:     title,
		Price:     draft.Price,
		Stock:     draft.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.products.Create(ctx, product); err != nil {
		return nil, domainErrors.Dependency("create product", err)
	}
	return product, nil
}

// Get returns a product by id.
func (u *ProductUseCase) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := u.products.GetByID(ctx, id)
	if err != nil {
		return nil, domainErrors.Dependency("load product", err)
	}
	return product, nil
}
