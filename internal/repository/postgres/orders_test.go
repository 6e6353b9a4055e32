package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

func TestOrderGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs("ORD999").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "customer_id", "status", "total_amount", "order_date", "expected_delivery"}))

	repo := NewOrderRepository(db, zap.NewNop())
	_, err = repo.GetByID(context.Background(), "ORD999")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestOrderGetByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"order_id", "customer_id", "status", "total_amount", "order_date", "expected_delivery"}).
		AddRow("ORD007", "WM001", "delivered", 250.0, "2025-07-20", "2025-07-22").
		AddRow("ORD008", "WM001", "cancelled", 120.0, "2025-07-25", "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs("WM001").
		WillReturnRows(rows)

	repo := NewOrderRepository(db, zap.NewNop())
	orders, err := repo.GetByCustomer(context.Background(), "WM001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].Status != domain.OrderStatusDelivered || orders[0].TotalAmount != 250.0 {
		t.Errorf("unexpected first order %+v", orders[0])
	}
}
