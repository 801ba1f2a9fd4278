package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// MemoryStore is an in-memory repository.Factory. Every mutation runs under a
// single mutex, which gives the same atomicity the SQL statements provide.
type MemoryStore struct {
	mu       sync.Mutex
	users    *UserRepositoryStub
	products map[string]*model.Product
	orders   map[string]*model.Order
	reviews  map[string]*model.Review
	seq      int

	// DecrementErr, when set, is consulted before each decrement.
	DecrementErr func(productID string) error
	// IncrementErr, when set, is consulted before each increment.
	IncrementErr func(productID string) error
	// CreateOrderErr fails order inserts.
	CreateOrderErr error
	// BeforeStatusUpdate runs outside the lock ahead of every compare-and-swap.
	BeforeStatusUpdate func(orderID string)
	// Err fails every read.
	Err error

	decrements int
	increments int
	orderSeq   map[string]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    NewUserRepositoryStub(),
		products: make(map[string]*model.Product),
		orders:   make(map[string]*model.Order),
		reviews:  make(map[string]*model.Review),
		orderSeq: make(map[string]int),
	}
}

// Users returns the user repository.
func (s *MemoryStore) Users() repository.UserRepository { return s.users }

// Products returns the product directory view.
func (s *MemoryStore) Products() repository.ProductRepository { return memoryProducts{s} }

// Orders returns the order store view.
func (s *MemoryStore) Orders() repository.OrderRepository { return memoryOrders{s} }

// Reviews returns the review store view.
func (s *MemoryStore) Reviews() repository.ReviewRepository { return memoryReviews{s} }

// SeedProduct inserts or replaces a product.
func (s *MemoryStore) SeedProduct(id, sellerID string, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.products[id] = &model.Product{ID: id, SellerID: sellerID, Title: "product " + id, Stock: stock, CreatedAt: now, UpdatedAt: now}
}

// Stock returns the current stock of a product, or -1 when it does not exist.
func (s *MemoryStore) Stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.Stock
	}
	return -1
}

// OrderCount returns the number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// SetStatus forces an order status, bypassing the state machine.
func (s *MemoryStore) SetStatus(id string, status model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		o.Status = status
	}
}

// StockCalls returns how many decrements and increments were applied.
func (s *MemoryStore) StockCalls() (decrements, increments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decrements, s.increments
}

type memoryProducts struct{ s *MemoryStore }

func (r memoryProducts) Create(ctx context.Context, product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r memoryProducts) GetByID(ctx context.Context, id string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, domainErrors.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memoryProducts) Decrement(ctx context.Context, id string, qty int) error {
	if r.s.DecrementErr != nil {
		if err := r.s.DecrementErr(id); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domainErrors.ErrProductNotFound
	}
	if p.Stock < qty {
		return domainErrors.ErrInsufficientStock
	}
	p.Stock -= qty
	r.s.decrements++
	return nil
}

func (r memoryProducts) Increment(ctx context.Context, id string, qty int) error {
	if r.s.IncrementErr != nil {
		if err := r.s.IncrementErr(id); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domainErrors.ErrProductNotFound
	}
	p.Stock += qty
	r.s.increments++
	return nil
}

type memoryOrders struct{ s *MemoryStore }

func cloneOrder(o *model.Order) model.Order {
	cp := *o
	cp.Items = append([]model.OrderLine(nil), o.Items...)
	return cp
}

func (r memoryOrders) Create(ctx context.Context, order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.CreateOrderErr != nil {
		return r.s.CreateOrderErr
	}
	if _, ok := r.s.orders[order.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	cp := cloneOrder(order)
	r.s.orders[order.ID] = &cp
	r.s.seq++
	r.s.orderSeq[order.ID] = r.s.seq
	return nil
}

func (r memoryOrders) GetByID(ctx context.Context, id string) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (r memoryOrders) list(match func(*model.Order) bool) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]model.Order, 0)
	for _, o := range r.s.orders {
		if match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.s.orderSeq[out[i].ID] > r.s.orderSeq[out[j].ID]
	})
	return out, nil
}

func (r memoryOrders) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return r.list(func(o *model.Order) bool { return o.BuyerID == buyerID })
}

func (r memoryOrders) ListBySeller(ctx context.Context, sellerID string) ([]model.Order, error) {
	return r.list(func(o *model.Order) bool { return o.HasSeller(sellerID) })
}

func (r memoryOrders) UpdateStatus(ctx context.Context, id string, expected, next model.OrderStatus, at time.Time) error {
	if hook := r.s.BeforeStatusUpdate; hook != nil {
		hook(id)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	if o.Status != expected {
		return domainErrors.ErrStaleStatus
	}
	o.Status = next
	o.UpdatedAt = at
	return nil
}

func (r memoryOrders) HasDeliveredPurchase(ctx context.Context, buyerID, productID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	for _, o := range r.s.orders {
		if o.BuyerID == buyerID && o.Status == model.OrderStatusDelivered && o.ContainsProduct(productID) {
			return true, nil
		}
	}
	return false, nil
}

type memoryReviews struct{ s *MemoryStore }

func (r memoryReviews) Create(ctx context.Context, review *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.ProductID == review.ProductID && existing.UserID == review.UserID {
			return domainErrors.ErrAlreadyReviewed
		}
	}
	cp := *review
	r.s.reviews[review.ID] = &cp
	return nil
}

func (r memoryReviews) GetByID(ctx context.Context, id string) (*model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, domainErrors.ErrReviewNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r memoryReviews) FindByProductAndUser(ctx context.Context, productID, userID string) (*model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, rv := range r.s.reviews {
		if rv.ProductID == productID && rv.UserID == userID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrReviewNotFound
}

func (r memoryReviews) list(match func(*model.Review) bool) ([]model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]model.Review, 0)
	for _, rv := range r.s.reviews {
		if match(rv) {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memoryReviews) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	return r.list(func(rv *model.Review) bool { return rv.ProductID == productID })
}

func (r memoryReviews) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return r.list(func(rv *model.Review) bool { return rv.UserID == userID })
}

func (r memoryReviews) Update(ctx context.Context, review *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[review.ID]; !ok {
		return domainErrors.ErrReviewNotFound
	}
	cp := *review
	r.s.reviews[review.ID] = &cp
	return nil
}

func (r memoryReviews) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return domainErrors.ErrReviewNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r memoryReviews) RatingSummary(ctx context.Context, productID string) (model.RatingSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	summary := model.RatingSummary{ProductID: productID}
	if r.s.Err != nil {
		return summary, r.s.Err
	}
	total := 0
	for _, rv := range r.s.reviews {
		if rv.ProductID == productID {
			total += rv.Rating
			summary.Count++
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}

var _ repository.Factory = (*MemoryStore)(nil)
