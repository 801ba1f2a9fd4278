package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	const query = `INSERT INTO products (id, seller_id, title, price, stock, created_at, updated_at)
                   VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)`
	_, err := r.storage.pool.Exec(ctx, query, p.ID, p.SellerID, p.Title, p.Price.String(), p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	const query = `SELECT id, seller_id, title, price::text, stock, created_at, updated_at FROM products WHERE id=$1`
	var (
		p     model.Product
		price string
	)
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.SellerID, &p.Title, &price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price of product %s: %w", id, err)
	}
	return &p, nil
}

// Decrement is a single conditional update, so concurrent reservations never
// drive stock below zero.
func (r *productRepository) Decrement(ctx context.Context, id string, qty int) error {
	const query = `UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id=$1 AND stock >= $2`
	tag, err := r.storage.pool.Exec(ctx, query, id, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domainErrors.ErrProductNotFound
	}
	return domainErrors.ErrInsufficientStock
}

func (r *productRepository) Increment(ctx context.Context, id string, qty int) error {
	const query = `UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.storage.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}
