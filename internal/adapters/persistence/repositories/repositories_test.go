package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/pkg/pagination"
	"limpay/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedStudent(t *testing.T, repos repositories.Repositories, id, email string) *models.User {
	t.Helper()
	ctx := context.Background()

	user := &models.User{ID: id, Name: "Student " + id, Email: email, PasswordHash: "x", Role: "student", Faculty: "Science"}
	require.NoError(t, repos.Users.Create(ctx, user))

	fees, err := repos.Fees.GetByIDs(ctx, []string{"fee_tuition_24", "fee_dept_24", "fee_accom_24"})
	require.NoError(t, err)
	require.Len(t, fees, 3)
	require.NoError(t, repos.Fees.AssignFees(ctx, id, fees))

	return user
}

func TestUserLookupByIDOrEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	byID, err := repos.Users.GetByIDOrEmail(ctx, "1234567")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", byID.Email)

	byEmail, err := repos.Users.GetByIDOrEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "1234567", byEmail.ID)

	_, err = repos.Users.GetByIDOrEmail(ctx, "7654321")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserExistsChecks(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")
	seedStudent(t, repos, "2345678", "bob@example.com")

	ok, err := repos.Users.ExistsByID(ctx, "1234567")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repos.Users.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repos.Users.ExistsByEmailExcept(ctx, "ada@example.com", "1234567")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repos.Users.ExistsByEmailExcept(ctx, "ada@example.com", "2345678")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUserDuplicateIsTranslated(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	err := repos.Users.Create(ctx, &models.User{ID: "1234567", Name: "Copy", Email: "copy@example.com", PasswordHash: "x", Role: "student"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestListByRoleSkipsAdmins(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")
	seedStudent(t, repos, "2345678", "bob@example.com")
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "admin", Name: "Admin", Email: "admin@limpay.edu", PasswordHash: "x", Role: "admin"}))

	users, total, err := repos.Users.ListByRole(ctx, "student", pagination.New(1, 1))
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, users, 1)

	_, err = repos.Users.GetByIDAndRole(ctx, "admin", "student")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignFeesSnapshotsCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	rows, err := repos.Fees.ListByUser(ctx, "1234567")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.True(t, row.PaidAmount.IsZero(), row.FeeID)
		require.True(t, row.Balance.Equal(row.TotalAmount), row.FeeID)
	}

	outstanding, err := repos.Fees.GetOutstanding(ctx, "1234567")
	require.NoError(t, err)
	require.Len(t, outstanding, 3)
	require.Equal(t, "fee_accom_24", outstanding[0].ID)
	require.Equal(t, "Accommodation Fee", outstanding[0].Type)
}

func TestApplyPaymentUpdatesInSQL(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	n, err := repos.Fees.ApplyPayment(ctx, "1234567", "fee_tuition_24", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = repos.Fees.ApplyPayment(ctx, "1234567", "fee_tuition_24", decimal.RequireFromString("0.50"))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	row, err := repos.Fees.GetUserFeeForUpdate(ctx, "1234567", "fee_tuition_24")
	require.NoError(t, err)
	require.Equal(t, "100.5", row.PaidAmount.String())
	require.Equal(t, "1099.5", row.Balance.String())
	require.True(t, row.Consistent())

	n, err = repos.Fees.ApplyPayment(ctx, "1234567", "fee_unknown", decimal.NewFromInt(1))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDepartmentalFeeDropsOffWhenSettled(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	_, err := repos.Fees.ApplyPayment(ctx, "1234567", "fee_dept_24", decimal.NewFromInt(50))
	require.NoError(t, err)

	outstanding, err := repos.Fees.GetOutstanding(ctx, "1234567")
	require.NoError(t, err)
	require.Len(t, outstanding, 2)
	for _, fee := range outstanding {
		require.NotEqual(t, "fee_dept_24", fee.ID)
	}
}

func TestFindInconsistent(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	rows, err := repos.Fees.FindInconsistent(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)

	require.NoError(t, db.Model(&models.UserFee{}).
		Where("user_id = ? AND fee_id = ?", "1234567", "fee_dept_24").
		Update("balance", decimal.NewFromInt(7)).Error)

	rows, err = repos.Fees.FindInconsistent(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "fee_dept_24", rows[0].FeeID)
}

func TestTransactionsNewestFirstWithStudentName(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	base := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"pi_old", "pi_mid", "pi_new"} {
		require.NoError(t, repos.Transactions.Create(ctx, &models.Transaction{
			ID:        id,
			UserID:    "1234567",
			FeeID:     "fee_tuition_24",
			Amount:    decimal.NewFromInt(int64(10 * (i + 1))),
			Status:    "Success",
			CardLast4: "4242",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	own, err := repos.Transactions.ListByUser(ctx, "1234567")
	require.NoError(t, err)
	require.Len(t, own, 3)
	require.Equal(t, "pi_new", own[0].ID)
	require.Equal(t, "pi_old", own[2].ID)

	all, total, err := repos.Transactions.ListAll(ctx, pagination.New(1, 2))
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	require.Equal(t, "pi_new", all[0].ID)
	require.Equal(t, "Student 1234567", all[0].StudentName)
	require.Equal(t, "1234567", all[0].StudentID)
	require.Equal(t, "30", all[0].Amount.String())
}

func TestTransactionDuplicateID(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	seedStudent(t, repos, "1234567", "ada@example.com")

	txn := func() *models.Transaction {
		return &models.Transaction{ID: "pi_1", UserID: "1234567", FeeID: "fee_dept_24", Amount: decimal.NewFromInt(5), Status: "Success"}
	}
	require.NoError(t, repos.Transactions.Create(ctx, txn()))
	require.ErrorIs(t, repos.Transactions.Create(ctx, txn()), gorm.ErrDuplicatedKey)

	ok, err := repos.Transactions.Exists(ctx, "pi_1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUnitOfWorkRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	uow := repositories.NewUnitOfWork(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.WithTx(ctx, func(repos repositories.Repositories) error {
		seedStudent(t, repos, "1234567", "ada@example.com")
		return boom
	})
	require.ErrorIs(t, err, boom)

	repos := repositories.NewRepositories(db)
	ok, err := repos.Users.ExistsByID(ctx, "1234567")
	require.NoError(t, err)
	require.False(t, ok)

	rows, err := repos.Fees.ListByUser(ctx, "1234567")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCascadeDeleteOrder(t *testing.T) {
	db := testutil.NewDB(t)
	uow := repositories.NewUnitOfWork(db)
	ctx := context.Background()

	repos := repositories.NewRepositories(db)
	seedStudent(t, repos, "1234567", "ada@example.com")
	require.NoError(t, repos.Transactions.Create(ctx, &models.Transaction{ID: "pi_1", UserID: "1234567", FeeID: "fee_dept_24", Amount: decimal.NewFromInt(5), Status: "Success"}))

	err := uow.WithTx(ctx, func(tx repositories.Repositories) error {
		if err := tx.Fees.DeleteByUser(ctx, "1234567"); err != nil {
			return err
		}
		if err := tx.Transactions.DeleteByUser(ctx, "1234567"); err != nil {
			return err
		}
		n, err := tx.Users.Delete(ctx, "1234567")
		require.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)

	_, err = repos.Users.GetByID(ctx, "1234567")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
