package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/SscSPs/recordsheet/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("JWT_ISSUER", "recordsheet-test")
	t.Setenv("IMPORT_PROFILES_PATH", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--user", "alice")
	require.NoError(t, err)

	userID, err := utils.ParseAndValidateJWT(strings.TrimSpace(out), "cli-test-secret", "recordsheet-test")
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "formats")
	require.NoError(t, err)
	assert.Equal(t, "amazon-csv\nofx\n", out)
}

func TestMigrateCommand_RejectsUnknownDirection(t *testing.T) {
	_, err := execute(t, "migrate", "sideways")
	assert.Error(t, err)
}

type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) IsClosed(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func TestResolveAccount(t *testing.T) {
	ctx := context.Background()
	checking := &domain.Account{AccountID: "acc-1", Name: "PERSONAL:ASSETS:CHECKING"}

	t.Run("by id", func(t *testing.T) {
		accounts := new(MockAccountReader)
		accounts.On("GetAccountByID", ctx, "acc-1").Return(checking, nil).Once()

		got, err := resolveAccount(ctx, accounts, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, checking, got)
		accounts.AssertNotCalled(t, "GetAccountByName", mock.Anything, mock.Anything)
	})

	t.Run("falls back to name", func(t *testing.T) {
		accounts := new(MockAccountReader)
		accounts.On("GetAccountByID", ctx, "personal:assets:checking").Return(nil, apperrors.ErrNotFound).Once()
		accounts.On("GetAccountByName", ctx, "personal:assets:checking").Return(checking, nil).Once()

		got, err := resolveAccount(ctx, accounts, "personal:assets:checking")
		require.NoError(t, err)
		assert.Equal(t, "acc-1", got.AccountID)
	})

	t.Run("unknown", func(t *testing.T) {
		accounts := new(MockAccountReader)
		accounts.On("GetAccountByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()
		accounts.On("GetAccountByName", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

		_, err := resolveAccount(ctx, accounts, "nope")
		assert.ErrorIs(t, err, apperrors.ErrUnknownAccount)
	})

	t.Run("store error is not masked", func(t *testing.T) {
		accounts := new(MockAccountReader)
		accounts.On("GetAccountByID", ctx, "acc-1").Return(nil, apperrors.NewStoreError("find account", context.DeadlineExceeded)).Once()

		_, err := resolveAccount(ctx, accounts, "acc-1")
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})
}
