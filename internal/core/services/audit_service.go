package services

import (
	"context"
	"log"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// AuditService periodically checks the fee ledger invariant
// balance == total_amount - paid_amount on every balance row.
type AuditService struct {
	feeRepo  repositories.FeeRepository
	schedule string
	cron     *cron.Cron
}

// NewAuditService creates an audit service; an empty schedule disables the job
func NewAuditService(feeRepo repositories.FeeRepository, schedule string) *AuditService {
	return &AuditService{
		feeRepo:  feeRepo,
		schedule: schedule,
	}
}

// Start registers the audit job and starts the scheduler
func (s *AuditService) Start() error {
	if s.schedule == "" {
		log.Println("⏭️ Ledger audit disabled")
		return nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.RunAudit(context.Background()); err != nil {
			log.Printf("❌ Ledger audit failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron = c
	c.Start()
	log.Printf("🚀 Ledger audit scheduled [%s]", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running audit to finish
func (s *AuditService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Println("🛑 Ledger audit stopped")
}

// RunAudit scans for inconsistent rows, logs each and publishes the count
func (s *AuditService) RunAudit(ctx context.Context) ([]*models.UserFee, error) {
	rows, err := s.feeRepo.FindInconsistent(ctx)
	if err != nil {
		return nil, err
	}

	metrics.LedgerDiscrepancies.Set(float64(len(rows)))

	for _, row := range rows {
		log.Printf("⚠️ Ledger discrepancy: user=%s fee=%s total=%s paid=%s balance=%s",
			row.UserID, row.FeeID, row.TotalAmount, row.PaidAmount, row.Balance)
	}
	if len(rows) == 0 {
		log.Println("✅ Ledger audit passed")
	}

	return rows, nil
}
