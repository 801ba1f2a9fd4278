package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

// addressRecord is the JSONB shape of a shipping address.
type addressRecord struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

const orderColumns = `o.id, o.number, o.buyer_id, o.status, o.payment_method, o.shipping_address,
                   o.subtotal::text, o.shipping_cost::text, o.tax_amount::text, o.total_amount::text, o.created_at, o.updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	address, err := json.Marshal(addressRecord(order.ShippingAddress))
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}

	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, number, buyer_id, status, payment_method, shipping_address,
                             subtotal, shipping_cost, tax_amount, total_amount, created_at, updated_at)
                             VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10::numeric, $11, $12)`
		if _, err := tx.Exec(ctx, insertOrder,
			order.ID, order.Number, order.BuyerID, string(order.Status), order.PaymentMethod, address,
			order.Subtotal.String(), order.ShippingCost.String(), order.TaxAmount.String(), order.TotalAmount.String(),
			order.CreatedAt, order.UpdatedAt,
		); err != nil {
			return err
		}

		const insertLine = `INSERT INTO order_lines (order_id, position, product_id, product_title, product_image, quantity, price, seller_id)
                            VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8)`
		for i, line := range order.Items {
			if _, err := tx.Exec(ctx, insertLine,
				order.ID, i, line.ProductID, line.ProductTitle, line.ProductImage, line.Quantity, line.Price.String(), line.SellerID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	orders := []model.Order{*order}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.buyer_id=$1 ORDER BY o.created_at DESC, o.id`
	return r.list(ctx, query, buyerID)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o
              WHERE EXISTS (SELECT 1 FROM order_lines l WHERE l.order_id = o.id AND l.seller_id = $1)
              ORDER BY o.created_at DESC, o.id`
	return r.list(ctx, query, sellerID)
}

// UpdateStatus is a compare-and-swap on the current status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, expected, next model.OrderStatus, at time.Time) error {
	const query = `UPDATE orders SET status=$3, updated_at=$4 WHERE id=$1 AND status=$2`
	tag, err := r.storage.pool.Exec(ctx, query, id, string(expected), string(next), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domainErrors.ErrOrderNotFound
	}
	return domainErrors.ErrStaleStatus
}

func (r *orderRepository) HasDeliveredPurchase(ctx context.Context, buyerID, productID string) (bool, error) {
	const query = `SELECT EXISTS (
                       SELECT 1 FROM orders o JOIN order_lines l ON l.order_id = o.id
                       WHERE o.buyer_id=$1 AND l.product_id=$2 AND o.status=$3)`
	var delivered bool
	err := r.storage.pool.QueryRow(ctx, query, buyerID, productID, string(model.OrderStatusDelivered)).Scan(&delivered)
	return delivered, err
}

func (r *orderRepository) list(ctx context.Context, query, arg string) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// attachLines loads lines of all orders with one query.
func (r *orderRepository) attachLines(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	const query = `SELECT order_id, product_id, product_title, product_image, quantity, price::text, seller_id
                   FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, position`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			line    model.OrderLine
			price   string
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.ProductTitle, &line.ProductImage, &line.Quantity, &price, &line.SellerID); err != nil {
			return err
		}
		if line.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("parse line price of order %s: %w", orderID, err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, line)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o                                   model.Order
		status                              string
		address                             []byte
		subtotal, shipping, tax, totalPrice string
	)
	if err := row.Scan(&o.ID, &o.Number, &o.BuyerID, &status, &o.PaymentMethod, &address,
		&subtotal, &shipping, &tax, &totalPrice, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)

	var rec addressRecord
	if err := json.Unmarshal(address, &rec); err != nil {
		return nil, fmt.Errorf("decode shipping address of order %s: %w", o.ID, err)
	}
	o.ShippingAddress = model.ShippingAddress(rec)

	amounts := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{subtotal, &o.Subtotal},
		{shipping, &o.ShippingCost},
		{tax, &o.TaxAmount},
		{totalPrice, &o.TotalAmount},
	}
	for _, a := range amounts {
		v, err := decimal.NewFromString(a.raw)
		if err != nil {
			return nil, fmt.Errorf("parse amount of order %s: %w", o.ID, err)
		}
		*a.dst = v
	}
	return &o, nil
}
