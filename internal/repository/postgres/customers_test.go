package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/pkg/errors"
)

func TestCustomerGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"customer_id", "name", "email", "phone", "membership", "wallet_balance", "location"}).
		AddRow("WM001", "Priya Sharma", "priya@example.com", "+911234567890", "premium", 500.0, "Mumbai")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT customer_id, name, email, phone, membership, wallet_balance, location")).
		WithArgs("WM001").
		WillReturnRows(rows)

	repo := NewCustomerRepository(db, zap.NewNop())
	customer, err := repo.GetByID(context.Background(), "WM001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Name != "Priya Sharma" || customer.WalletBalance != 500.0 {
		t.Errorf("unexpected customer %+v", customer)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT customer_id")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "name", "email", "phone", "membership", "wallet_balance", "location"}))

	repo := NewCustomerRepository(db, zap.NewNop())
	_, err = repo.GetByID(context.Background(), "ghost")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCustomerUpdateWalletBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE customers")).
		WithArgs("WM001", 750.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE customers")).
		WithArgs("ghost", 100.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCustomerRepository(db, zap.NewNop())

	modified, err := repo.UpdateWalletBalance(context.Background(), "WM001", 750.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !modified {
		t.Error("expected update to report a modification")
	}

	modified, err = repo.UpdateWalletBalance(context.Background(), "ghost", 100.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if modified {
		t.Error("expected update of unknown customer to report no modification")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
