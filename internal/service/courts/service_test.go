package courts

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestService_List(t *testing.T) {
	store := memory.New()
	indoor := store.AddCourtType("Indoor", decimal.NewFromInt(600000))
	outdoor := store.AddCourtType("Outdoor", decimal.NewFromInt(400000))
	_, err := store.AddCourt("court-1", "Court 1", indoor.ID)
	require.NoError(t, err)
	_, err = store.AddCourt("court-2", "Court 2", outdoor.ID)
	require.NoError(t, err)

	svc := NewService(store.Courts(), &mockCache{}, logger.NewDiscard())

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Courts, 2)
	assert.Equal(t, "court-1", resp.Courts[0].Slug)
	assert.Equal(t, "Indoor", resp.Courts[0].Type.Name)
	assert.True(t, resp.Courts[1].Type.Rate.Equal(decimal.NewFromInt(400000)))
}

func TestService_UpdateTypeRate(t *testing.T) {
	tests := []struct {
		name       string
		typeID     int64
		rate       decimal.Decimal
		cacheErr   error
		wantErr    error
		wantCalled bool
	}{
		{name: "ok", typeID: 1, rate: decimal.NewFromInt(750000), wantCalled: true},
		{name: "cache failure is not fatal", typeID: 1, rate: decimal.NewFromInt(750000), cacheErr: errors.New("redis down"), wantCalled: true},
		{name: "zero rate", typeID: 1, rate: decimal.Zero, wantErr: domain.ErrValidation},
		{name: "negative rate", typeID: 1, rate: decimal.NewFromInt(-1), wantErr: ErrInvalidRate},
		{name: "unknown type", typeID: 9, rate: decimal.NewFromInt(1), wantErr: ErrCourtTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			courtType := store.AddCourtType("Indoor", decimal.NewFromInt(600000))
			court, err := store.AddCourt("court-1", "Court 1", courtType.ID)
			require.NoError(t, err)

			cache := &mockCache{}
			if tt.wantCalled {
				cache.On("InvalidateAll", mock.Anything).Return(tt.cacheErr).Once()
			}
			svc := NewService(store.Courts(), cache, logger.NewDiscard())

			resp, err := svc.UpdateTypeRate(context.Background(), tt.typeID, tt.rate)

			cache.AssertExpectations(t)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.Rate.Equal(tt.rate))

			stored, err := store.Courts().GetByID(context.Background(), court.ID)
			require.NoError(t, err)
			assert.True(t, stored.Rate().Equal(tt.rate))
		})
	}
}

func TestService_ListTypes(t *testing.T) {
	store := memory.New()
	store.AddCourtType("Outdoor", decimal.NewFromInt(400000))
	store.AddCourtType("Indoor", decimal.NewFromInt(600000))

	svc := NewService(store.Courts(), &mockCache{}, logger.NewDiscard())

	resp, err := svc.ListTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.CourtTypes, 2)
	assert.Equal(t, "Outdoor", resp.CourtTypes[0].Name)
	assert.True(t, resp.CourtTypes[1].Rate.Equal(decimal.NewFromInt(600000)))
}

func TestService_UpdateCourt(t *testing.T) {
	tests := []struct {
		name           string
		courtID        int64
		req            func(indoor, outdoor int64) models.UpdateCourtRequest
		wantErr        error
		wantSlug       string
		wantType       string
		wantInvalidate bool
	}{
		{
			name:    "rename derives slug",
			courtID: 1,
			req: func(int64, int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{Name: ptr.Ptr("  Sân Alpha 1 ")}
			},
			wantSlug:       "san-alpha-1",
			wantType:       "Indoor",
			wantInvalidate: true,
		},
		{
			name:    "type change",
			courtID: 1,
			req: func(_, outdoor int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{CourtTypeID: ptr.Ptr(outdoor)}
			},
			wantSlug:       "court-1",
			wantType:       "Outdoor",
			wantInvalidate: true,
		},
		{
			name:    "same type and name keeps cache",
			courtID: 1,
			req: func(indoor, _ int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{Name: ptr.Ptr("Court 1"), CourtTypeID: ptr.Ptr(indoor)}
			},
			wantSlug: "court-1",
			wantType: "Indoor",
		},
		{
			name:    "nothing to update",
			courtID: 1,
			req:     func(int64, int64) models.UpdateCourtRequest { return models.UpdateCourtRequest{} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank name",
			courtID: 1,
			req: func(int64, int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{Name: ptr.Ptr("   ")}
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "name without letters",
			courtID: 1,
			req: func(int64, int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{Name: ptr.Ptr("!!!")}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "slug of another court",
			courtID: 1,
			req: func(int64, int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{Name: ptr.Ptr("Court 2")}
			},
			wantErr: ErrSlugTaken,
		},
		{
			name:    "unknown type",
			courtID: 1,
			req: func(int64, int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{CourtTypeID: ptr.Ptr(int64(99))}
			},
			wantErr: ErrCourtTypeNotFound,
		},
		{
			name:    "unknown court",
			courtID: 42,
			req: func(int64, int64) models.UpdateCourtRequest {
				return models.UpdateCourtRequest{Name: ptr.Ptr("Court 42")}
			},
			wantErr: ErrCourtNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			indoor := store.AddCourtType("Indoor", decimal.NewFromInt(600000))
			outdoor := store.AddCourtType("Outdoor", decimal.NewFromInt(400000))
			_, err := store.AddCourt("court-1", "Court 1", indoor.ID)
			require.NoError(t, err)
			_, err = store.AddCourt("court-2", "Court 2", indoor.ID)
			require.NoError(t, err)

			cache := &mockCache{}
			if tt.wantInvalidate {
				cache.On("InvalidateAll", mock.Anything).Return(nil).Once()
			}
			svc := NewService(store.Courts(), cache, logger.NewDiscard())

			resp, err := svc.UpdateCourt(context.Background(), tt.courtID, tt.req(indoor.ID, outdoor.ID))

			cache.AssertExpectations(t)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, resp.Slug)
			require.NotNil(t, resp.Type)
			assert.Equal(t, tt.wantType, resp.Type.Name)

			stored, err := store.Courts().GetBySlug(context.Background(), tt.wantSlug)
			require.NoError(t, err)
			assert.Equal(t, tt.courtID, stored.ID)
		})
	}
}
