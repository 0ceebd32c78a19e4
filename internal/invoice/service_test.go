package invoice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rgoyals/bahikhata/internal/invoice"
	"github.com/rgoyals/bahikhata/internal/validation"
)

func TestService_Create(t *testing.T) {
	ownerID := uuid.New()

	type testCase struct {
		name      string
		params    invoice.CreateParams
		setupMock func(m *invoice.MockRepository)
		wantField string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: invoice.CreateParams{
				Date:         time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				CustomerName: "Sharma Traders",
				Amount:       2500,
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						inv.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "MissingCustomerName",
			params: invoice.CreateParams{
				Date:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				Amount: 2500,
			},
			wantField: "customer_name",
			wantErr:   true,
		},
		{
			name: "NegativeAmount",
			params: invoice.CreateParams{
				Date:         time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				CustomerName: "Sharma Traders",
				Amount:       -100,
			},
			wantField: "amount",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := invoice.NewService(repo)
			got, err := svc.Create(context.Background(), ownerID, tt.params)

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
			assert.Equal(t, ownerID, got.OwnerID)
			assert.Equal(t, "Sharma Traders", got.CustomerName)
		})
	}
}

func TestService_Delete_NotFoundPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	ownerID := uuid.New()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().
		DeleteInvoice(gomock.Any(), id, ownerID).
		Return(invoice.ErrNotFound)

	svc := invoice.NewService(repo)
	assert.ErrorIs(t, svc.Delete(context.Background(), id, ownerID), invoice.ErrNotFound)
}
