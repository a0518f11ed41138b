package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/config"
	"limpay/internal/core/domain"
	"limpay/internal/core/services"
	"limpay/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway is an in-memory card processor
type fakeGateway struct {
	mu          sync.Mutex
	intents     map[string]*domain.PaymentIntent
	created     []services.CreateIntentInput
	retrieveErr error
	block       bool
	seq         int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]*domain.PaymentIntent)}
}

// confirm registers a processor-side usd payment opened by owner
func (g *fakeGateway) confirm(id, owner, amount, status string) {
	g.charge(id, owner, amount, "usd", status)
}

func (g *fakeGateway) charge(id, owner, amount, currency, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id] = &domain.PaymentIntent{
		ID:        id,
		Status:    status,
		Amount:    decimal.RequireFromString(amount).Shift(2).IntPart(),
		Currency:  currency,
		CardLast4: "4242",
		UserID:    owner,
	}
}

// succeed moves an intent opened through CreateIntent to succeeded
func (g *fakeGateway) succeed(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id].Status = domain.PaymentStatusSucceeded
}

func (g *fakeGateway) CreateIntent(ctx context.Context, input services.CreateIntentInput) (*domain.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.created = append(g.created, input)
	intent := &domain.PaymentIntent{
		ID:           fmt.Sprintf("pi_fake_%d", g.seq),
		Status:       "requires_payment_method",
		ClientSecret: fmt.Sprintf("pi_fake_%d_secret_test", g.seq),
		Amount:       input.Amount.Shift(2).IntPart(),
		Currency:     input.Currency,
		UserID:       input.UserID,
	}
	g.intents[intent.ID] = intent
	copied := *intent
	return &copied, nil
}

func (g *fakeGateway) RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	g.mu.Lock()
	block, retrieveErr := g.block, g.retrieveErr
	intent, ok := g.intents[intentID]
	g.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if retrieveErr != nil {
		return nil, retrieveErr
	}
	if !ok {
		return nil, domain.NewError(domain.ErrPaymentNotConfirmed, "Payment not found")
	}
	copied := *intent
	return &copied, nil
}

type env struct {
	db       *gorm.DB
	cfg      *config.Config
	gateway  *fakeGateway
	auth     *services.AuthService
	fees     *services.FeeService
	payments *services.PaymentService
	users    *services.UserService
	students *services.StudentService
	audit    *services.AuditService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithConfig(t, testutil.Config())
}

func newEnvWithConfig(t *testing.T, cfg *config.Config) *env {
	t.Helper()

	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	uow := repositories.NewUnitOfWork(db)
	gateway := newFakeGateway()

	fees := services.NewFeeService(repos.Fees, uow, cfg.Fees.DefaultFeeIDs)

	return &env{
		db:       db,
		cfg:      cfg,
		gateway:  gateway,
		auth:     services.NewAuthService(repos.Users, uow, fees, cfg),
		fees:     fees,
		payments: services.NewPaymentService(gateway, repos.Transactions, uow, cfg),
		users:    services.NewUserService(repos.Users),
		students: services.NewStudentService(repos.Users, repos.Transactions, uow, fees),
		audit:    services.NewAuditService(repos.Fees, ""),
	}
}

func (e *env) register(t *testing.T, id string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), &services.RegisterInput{
		ID:       id,
		Name:     "Student " + id,
		Email:    id + "@students.limpay.edu",
		Password: "secret-" + id,
		Faculty:  "Engineering",
	})
	require.NoError(t, err)
	return user
}

func (e *env) userFee(t *testing.T, userID, feeID string) models.UserFee {
	t.Helper()
	var row models.UserFee
	require.NoError(t, e.db.Where("user_id = ? AND fee_id = ?", userID, feeID).First(&row).Error)
	return row
}

func (e *env) countTransactions(t *testing.T, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(&models.Transaction{})
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func record(amount, feeID, intentID string) *services.RecordPaymentInput {
	return &services.RecordPaymentInput{
		Amount:          decimal.RequireFromString(amount),
		FeeID:           feeID,
		Description:     "Payment for " + feeID,
		PaymentIntentID: intentID,
	}
}
