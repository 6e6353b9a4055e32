package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
)

func TestEscalationAdd_Upserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (case_id) DO UPDATE")).
		WithArgs("case-1", "WM001", "damaged item", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEscalationRepository(db, zap.NewNop())
	if err := repo.Add(context.Background(), "case-1", "WM001", "damaged item"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEscalationGetByCaseID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"case_id", "customer_id", "issue_details", "status", "escalation_time", "resolution", "resolved_at"}).
		AddRow("case-1", "WM001", "damaged item", "pending", "2025-08-01T10:00:00Z", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM escalations")).
		WithArgs("case-1").
		WillReturnRows(rows)

	repo := NewEscalationRepository(db, zap.NewNop())
	esc, err := repo.GetByCaseID(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if esc.Status != domain.EscalationStatusPending {
		t.Errorf("expected pending status, got %s", esc.Status)
	}
	if esc.Resolution != nil || esc.ResolvedAt != nil {
		t.Errorf("expected unresolved case, got %+v", esc)
	}
}

func TestEscalationResolve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE escalations")).
		WithArgs("case-1", `{"resolution_type":"approved"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE escalations")).
		WithArgs("case-404", `{"resolution_type":"approved"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEscalationRepository(db, zap.NewNop())

	modified, err := repo.Resolve(context.Background(), "case-1", `{"resolution_type":"approved"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !modified {
		t.Error("expected resolve to report a modification")
	}

	modified, err = repo.Resolve(context.Background(), "case-404", `{"resolution_type":"approved"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if modified {
		t.Error("expected resolve of unknown case to report no modification")
	}
}
