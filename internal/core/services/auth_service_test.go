package services_test

import (
	"context"
	"testing"
	"time"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/core/domain"
	"limpay/internal/core/services"
	"limpay/internal/pkg/jwt"
	"limpay/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsDefaultFees(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user := e.register(t, "1234567")
	require.Equal(t, "student", user.Role)
	require.Equal(t, "Engineering", user.Faculty)
	require.NotEqual(t, "secret-1234567", user.PasswordHash)

	var rows []models.UserFee
	require.NoError(t, e.db.Where("user_id = ?", "1234567").Order("fee_id").Find(&rows).Error)
	require.Len(t, rows, 3)

	want := map[string]string{"fee_tuition_24": "1200", "fee_dept_24": "50", "fee_accom_24": "500"}
	for _, row := range rows {
		require.Equal(t, want[row.FeeID], row.TotalAmount.String(), row.FeeID)
		require.True(t, row.Balance.Equal(row.TotalAmount), row.FeeID)
		require.True(t, row.PaidAmount.IsZero(), row.FeeID)
	}

	fees, err := e.fees.OutstandingFeesFor(ctx, "1234567")
	require.NoError(t, err)
	require.Len(t, fees, 3)
}

func TestRegisterDefaultsFaculty(t *testing.T) {
	e := newEnv(t)

	user, err := e.auth.Register(context.Background(), &services.RegisterInput{
		ID:       "1234567",
		Name:     "Ada",
		Email:    "Ada@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.DefaultFaculty, user.Faculty)
	require.Equal(t, "ada@example.com", user.Email)
}

func TestRegisterConflictReportsFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "1234567")

	_, err := e.auth.Register(ctx, &services.RegisterInput{
		ID: "1234567", Name: "Other", Email: "other@example.com", Password: "secret1",
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.EqualError(t, err, "Student ID already exists")

	_, err = e.auth.Register(ctx, &services.RegisterInput{
		ID: "7654321", Name: "Other", Email: "1234567@students.limpay.edu", Password: "secret1",
	})
	require.EqualError(t, err, "Email already exists")

	_, err = e.auth.Register(ctx, &services.RegisterInput{
		ID: "1234567", Name: "Other", Email: "1234567@students.limpay.edu", Password: "secret1",
	})
	require.EqualError(t, err, "Student ID and Email already exists")
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Register(context.Background(), &services.RegisterInput{
		ID:       "12345",
		Name:     "  ",
		Email:    "not-an-email",
		Password: "123",
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	messages := map[string]string{}
	for _, f := range verr.Fields {
		messages[f.Field] = f.Message
	}
	require.Equal(t, "Student ID must be exactly 7 digits", messages["id"])
	require.Equal(t, "Name is required", messages["name"])
	require.Equal(t, "Valid email is required", messages["email"])
	require.Equal(t, "Password must be at least 6 characters", messages["password"])

	var users int64
	require.NoError(t, e.db.Model(&models.User{}).Count(&users).Error)
	require.Zero(t, users)
}

func TestRegisterIsAtomicWhenCatalogIncomplete(t *testing.T) {
	cfg := testutil.Config()
	cfg.Fees.DefaultFeeIDs = []string{"fee_tuition_24", "fee_missing"}
	e := newEnvWithConfig(t, cfg)

	_, err := e.auth.Register(context.Background(), &services.RegisterInput{
		ID: "1234567", Name: "Ada", Email: "ada@example.com", Password: "secret1",
	})
	require.ErrorIs(t, err, domain.ErrFeeCatalogMissing)

	var users, fees int64
	require.NoError(t, e.db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, e.db.Model(&models.UserFee{}).Count(&fees).Error)
	require.Zero(t, users)
	require.Zero(t, fees)
}

func TestLoginSameErrorForUnknownAndWrongPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "1234567")

	_, unknownErr := e.auth.Login(ctx, &services.LoginInput{ID: "7654321", Password: "secret-1234567"})
	_, wrongErr := e.auth.Login(ctx, &services.LoginInput{ID: "1234567", Password: "wrong-password"})

	require.ErrorIs(t, unknownErr, domain.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, domain.ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginByIDOrEmailIssuesToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "1234567")

	for _, identifier := range []string{"1234567", "1234567@Students.limpay.edu"} {
		res, err := e.auth.Login(ctx, &services.LoginInput{ID: identifier, Password: "secret-1234567"})
		require.NoError(t, err, identifier)
		require.Equal(t, "1234567", res.User.ID)
		require.Equal(t, "Engineering", res.User.Faculty)

		claims, err := e.auth.VerifyToken(res.Token)
		require.NoError(t, err)
		require.Equal(t, "1234567", claims.UserID)
		require.Equal(t, "student", claims.Role)
		require.Equal(t, "Student 1234567", claims.Name)
		require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	}
}

func TestVerifyTokenFailures(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.VerifyToken("")
	require.ErrorIs(t, err, domain.ErrTokenMissing)

	_, err = e.auth.VerifyToken("not.a.token")
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired, err := jwt.GenerateAccessToken("1234567", "student", "Ada", e.cfg.JWT.Secret, e.cfg.JWT.Issuer, -time.Hour)
	require.NoError(t, err)
	_, err = e.auth.VerifyToken(expired)
	require.ErrorIs(t, err, domain.ErrTokenExpired)

	foreign, err := jwt.GenerateAccessToken("1234567", "admin", "Ada", "another-secret", e.cfg.JWT.Issuer, time.Hour)
	require.NoError(t, err)
	_, err = e.auth.VerifyToken(foreign)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	e := newEnv(t)

	student := &jwt.Claims{UserID: "1234567", Role: "student"}
	admin := &jwt.Claims{UserID: "admin", Role: "admin"}

	require.NoError(t, e.auth.RequireRole(admin, domain.RoleAdmin))
	require.ErrorIs(t, e.auth.RequireRole(student, domain.RoleAdmin), domain.ErrForbidden)
	require.ErrorIs(t, e.auth.RequireRole(nil, domain.RoleStudent), domain.ErrForbidden)
}
