package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/rgoyals/bahikhata/internal/user"
	"github.com/rgoyals/bahikhata/internal/validation"
)

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		email     string
		password  string
		setupMock func(m *user.MockRepository)
		wantField string
		wantErr   bool
	}

	tests := []testCase{
		{
			name:     "Success",
			email:    "Owner@Example.com",
			password: "secret-password",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						// Email is lowercased and the password never stored raw.
						assert.Equal(t, "owner@example.com", u.Email)
						assert.NotEqual(t, "secret-password", u.HashedPassword)
						return nil
					})
			},
		},
		{
			name:      "BadEmail",
			email:     "not-an-email",
			password:  "secret-password",
			wantField: "email",
			wantErr:   true,
		},
		{
			name:      "ShortPassword",
			email:     "owner@example.com",
			password:  "short",
			wantField: "password",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo)
			got, err := svc.Register(context.Background(), tt.email, tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &user.User{Email: "owner@example.com", HashedPassword: string(hash)}

	t.Run("CorrectPassword", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			GetUserByEmail(gomock.Any(), "owner@example.com").
			Return(stored, nil)

		svc := user.NewService(repo)

		got, err := svc.Authenticate(context.Background(), "owner@example.com", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, stored.Email, got.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			GetUserByEmail(gomock.Any(), "owner@example.com").
			Return(stored, nil)

		svc := user.NewService(repo)

		got, err := svc.Authenticate(context.Background(), "owner@example.com", "wrong")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().
			GetUserByEmail(gomock.Any(), "ghost@example.com").
			Return(nil, user.ErrNotFound)

		svc := user.NewService(repo)

		_, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}
