package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

type reviewRepository struct {
	storage *Storage
}

const reviewColumns = `id, product_id, user_id, rating, text, created_at, updated_at`

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	const query = `INSERT INTO reviews (id, product_id, user_id, rating, text, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.storage.pool.Exec(ctx, query,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Text, review.CreatedAt, review.UpdatedAt)
	if err != nil {
		// The unique (product_id, user_id) index settles concurrent creates.
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	return r.get(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id)
}

func (r *reviewRepository) FindByProductAndUser(ctx context.Context, productID, userID string) (*model.Review, error) {
	return r.get(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE product_id=$1 AND user_id=$2`, productID, userID)
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE product_id=$1 ORDER BY created_at DESC, id`, productID)
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 ORDER BY created_at DESC, id`, userID)
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	const query = `UPDATE reviews SET rating=$2, text=$3, updated_at=$4 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, review.ID, review.Rating, review.Text, review.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) RatingSummary(ctx context.Context, productID string) (model.RatingSummary, error) {
	const query = `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE product_id=$1`
	summary := model.RatingSummary{ProductID: productID}
	var count int64
	if err := r.storage.pool.QueryRow(ctx, query, productID).Scan(&summary.Average, &count); err != nil {
		return model.RatingSummary{}, err
	}
	summary.Count = int(count)
	return summary, nil
}

func (r *reviewRepository) get(ctx context.Context, query string, args ...any) (*model.Review, error) {
	var rv model.Review
	err := r.storage.pool.QueryRow(ctx, query, args...).Scan(
		&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Text, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) list(ctx context.Context, query, arg string) ([]model.Review, error) {
	rows, err := r.storage.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Text, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
