package services

import (
	"context"
	"log"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/core/domain"
)

// FeeService exposes the fee ledger's query surface and fee assignment
type FeeService struct {
	feeRepo       repositories.FeeRepository
	uow           repositories.UnitOfWork
	defaultFeeIDs []string
}

// NewFeeService creates a new fee service
func NewFeeService(feeRepo repositories.FeeRepository, uow repositories.UnitOfWork, defaultFeeIDs []string) *FeeService {
	return &FeeService{
		feeRepo:       feeRepo,
		uow:           uow,
		defaultFeeIDs: defaultFeeIDs,
	}
}

// OutstandingFeesFor returns the user's fees with a positive balance
func (s *FeeService) OutstandingFeesFor(ctx context.Context, userID string) ([]*models.OutstandingFee, error) {
	fees, err := s.feeRepo.GetOutstanding(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fees == nil {
		fees = []*models.OutstandingFee{}
	}
	return fees, nil
}

// Catalog returns every fee definition
func (s *FeeService) Catalog(ctx context.Context) ([]*models.Fee, error) {
	return s.feeRepo.List(ctx)
}

// AssignDefaultFees assigns the default fee set to userID in its own transaction
func (s *FeeService) AssignDefaultFees(ctx context.Context, userID string) error {
	return s.uow.WithTx(ctx, func(repos repositories.Repositories) error {
		return s.assignDefaultFees(ctx, repos.Fees, userID)
	})
}

// assignDefaultFees snapshots the current catalog amounts onto new balance
// rows. It runs on whichever repository it is given so callers can make it
// part of a larger unit of work.
func (s *FeeService) assignDefaultFees(ctx context.Context, feeRepo repositories.FeeRepository, userID string) error {
	fees, err := feeRepo.GetByIDs(ctx, s.defaultFeeIDs)
	if err != nil {
		return err
	}
	if len(fees) != len(s.defaultFeeIDs) {
		log.Printf("❌ Default fees %v incomplete in catalog (found %d)", s.defaultFeeIDs, len(fees))
		return domain.ErrFeeCatalogMissing
	}
	return feeRepo.AssignFees(ctx, userID, fees)
}
