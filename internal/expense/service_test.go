package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rgoyals/bahikhata/internal/expense"
	"github.com/rgoyals/bahikhata/internal/validation"
)

func TestService_Create(t *testing.T) {
	ownerID := uuid.New()

	type testCase struct {
		name      string
		params    expense.CreateParams
		setupMock func(m *expense.MockRepository)
		wantField string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: expense.CreateParams{
				Date:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				Item:   "raw materials",
				Amount: 1000,
			},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						e.ID = uuid.New()
						e.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "NegativeAmount",
			params: expense.CreateParams{
				Date:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				Item:   "raw materials",
				Amount: -5,
			},
			wantField: "amount",
			wantErr:   true,
		},
		{
			name: "MissingItem",
			params: expense.CreateParams{
				Date:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				Item:   "  ",
				Amount: 10,
			},
			wantField: "item",
			wantErr:   true,
		},
		{
			name: "MissingDate",
			params: expense.CreateParams{
				Item:   "raw materials",
				Amount: 10,
			},
			wantField: "date",
			wantErr:   true,
		},
		{
			name: "RepoError",
			params: expense.CreateParams{
				Date:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				Item:   "raw materials",
				Amount: 10,
			},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo)
			got, err := svc.Create(context.Background(), ownerID, tt.params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantField != "" {
					var verr *validation.Error
					require.ErrorAs(t, err, &verr)
					assert.Equal(t, tt.wantField, verr.Field)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, ownerID, got.OwnerID)
			assert.Equal(t, 1000.0, got.Amount)
		})
	}
}

func TestService_Get_CrossOwnerIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	otherOwner := uuid.New()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		GetExpense(gomock.Any(), id, otherOwner).
		Return(nil, expense.ErrNotFound)

	svc := expense.NewService(repo)

	got, err := svc.Get(context.Background(), id, otherOwner)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, expense.ErrNotFound)
}

func TestService_List_PassesFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ownerID := uuid.New()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	filter := expense.ListFilter{StartDate: &start, EndDate: &end}

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		ListExpenses(gomock.Any(), ownerID, filter).
		Return([]*expense.Expense{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	svc := expense.NewService(repo)

	got, err := svc.List(context.Background(), ownerID, filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Update_ValidatesBeforeTouchingRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No repo expectations: validation must reject before any call.
	repo := expense.NewMockRepository(ctrl)
	svc := expense.NewService(repo)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), expense.CreateParams{
		Date:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		Item:   "tea",
		Amount: -1,
	})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}
