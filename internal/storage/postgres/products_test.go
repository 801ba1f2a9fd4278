package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

func TestProductRepositoryCreateAndGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	now := time.Now()
	product := &model.Product{ID: "p-1", SellerID: "s-1", Title: "Lamp", Price: decimal.RequireFromString("10.50"), Stock: 4, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO products").WithArgs("p-1", "s-1", "Lamp", "10.5", 4, now, now).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("INSERT INTO products").WillReturnError(&pgconn.PgError{Code: "23505"})
	if err := repo.Create(context.Background(), product); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	mock.ExpectQuery("SELECT id, seller_id, title, price::text, stock, created_at, updated_at FROM products WHERE id=").WithArgs("p-1").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "seller_id", "title", "price", "stock", "created_at", "updated_at"}).
			AddRow("p-1", "s-1", "Lamp", "10.50", 4, now, now))
	got, err := repo.GetByID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("10.5")) || got.Stock != 4 || got.SellerID != "s-1" {
		t.Fatalf("unexpected product %+v", got)
	}

	mock.ExpectQuery("SELECT id, seller_id, title, price::text").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}

	mock.ExpectQuery("SELECT id, seller_id, title, price::text").WithArgs("bad").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "seller_id", "title", "price", "stock", "created_at", "updated_at"}).
			AddRow("bad", "s-1", "Lamp", "not-a-number", 4, now, now))
	if _, err := repo.GetByID(context.Background(), "bad"); err == nil {
		t.Fatal("expected price parse error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryDecrement(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	mock.ExpectExec("UPDATE products SET stock = stock - ").WithArgs("p-1", 2).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.Decrement(context.Background(), "p-1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE products SET stock = stock - ").WithArgs("p-1", 9).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("p-1").WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(true))
	if err := repo.Decrement(context.Background(), "p-1", 9); !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	mock.ExpectExec("UPDATE products SET stock = stock - ").WithArgs("gone", 1).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("gone").WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(false))
	if err := repo.Decrement(context.Background(), "gone", 1); !errors.Is(err, domainErrors.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}

	mock.ExpectExec("UPDATE products SET stock = stock - ").WithArgs("p-1", 1).WillReturnError(errors.New("deadlock"))
	if err := repo.Decrement(context.Background(), "p-1", 1); err == nil || errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected raw storage error, got %v", err)
	}

	mock.ExpectExec("UPDATE products SET stock = stock - ").WithArgs("p-1", 3).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("p-1").WillReturnError(errors.New("conn reset"))
	if err := repo.Decrement(context.Background(), "p-1", 3); err == nil || errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected lookup error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryIncrement(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	mock.ExpectExec("UPDATE products SET stock = stock \\+ ").WithArgs("p-1", 2).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.Increment(context.Background(), "p-1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE products SET stock = stock \\+ ").WithArgs("gone", 2).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.Increment(context.Background(), "gone", 2); !errors.Is(err, domainErrors.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}

	mock.ExpectExec("UPDATE products SET stock = stock \\+ ").WithArgs("p-1", 2).WillReturnError(errors.New("fail"))
	if err := repo.Increment(context.Background(), "p-1", 2); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
