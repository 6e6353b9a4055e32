package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

type escalationService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewEscalationService creates a new escalation service
func NewEscalationService(repos *repository.Repositories, logger *zap.Logger) *escalationService {
	return &escalationService{
		repos:  repos,
		logger: logger,
	}
}

// Resolve closes a pending case with a human agent's resolution. An
// approved refund resolution also credits the customer's wallet; the
// workflow itself never resolves the cases it creates.
func (s *escalationService) Resolve(ctx context.Context, caseID string, resolution CaseResolution) error {
	s.logger.Info("Resolving escalation",
		zap.String("case_id", caseID),
		zap.String("resolution_type", resolution.ResolutionType),
	)

	payload, err := json.Marshal(resolution)
	if err != nil {
		return fmt.Errorf("failed to marshal resolution: %w", err)
	}

	modified, err := s.repos.Escalations.Resolve(ctx, caseID, string(payload))
	if err != nil {
		return err
	}
	if !modified {
		return &errors.ErrNotFound{Resource: "escalation", ID: caseID}
	}

	if resolution.ResolutionType == "approved" && resolution.RefundAmount > 0 {
		if err := s.applyRefund(ctx, caseID, resolution.RefundAmount); err != nil {
			// The case is already marked resolved; the credit failure is
			// surfaced to the agent rather than rolled back.
			return err
		}
	}

	return nil
}

func (s *escalationService) applyRefund(ctx context.Context, caseID string, amount float64) error {
	esc, err := s.repos.Escalations.GetByCaseID(ctx, caseID)
	if err != nil {
		return err
	}

	customer, err := s.repos.Customers.GetByID(ctx, esc.CustomerID)
	if err != nil {
		return err
	}

	newBalance := customer.WalletBalance + amount
	if _, err := s.repos.Customers.UpdateWalletBalance(ctx, esc.CustomerID, newBalance); err != nil {
		return err
	}

	s.logger.Info("Refund applied by agent",
		zap.String("case_id", caseID),
		zap.String("customer_id", esc.CustomerID),
		zap.Float64("amount", amount),
		zap.Float64("new_balance", newBalance),
	)

	return nil
}
