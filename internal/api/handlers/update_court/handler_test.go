package update_court

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-CourtBooking/internal/service/courts"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateCourt(ctx context.Context, courtID int64, req models.UpdateCourtRequest) (*models.CourtResponse, error) {
	args := m.Called(ctx, courtID, req)
	resp, _ := args.Get(0).(*models.CourtResponse)
	return resp, args.Error(1)
}

func serve(svc CourtService, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/courts/{courtId}", NewHandler(svc, logger.NewDiscard()).Handle).Methods(http.MethodPatch)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body)))
	return w
}

func nameIs(want string) interface{} {
	return mock.MatchedBy(func(req models.UpdateCourtRequest) bool {
		return req.Name != nil && *req.Name == want && req.CourtTypeID == nil
	})
}

func TestHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		body     string
		setup    func(m *mockService)
		wantCode int
	}{
		{
			name: "rename",
			path: "/api/v1/courts/1",
			body: `{"name":"Alpha 1"}`,
			setup: func(m *mockService) {
				m.On("UpdateCourt", mock.Anything, int64(1), nameIs("Alpha 1")).
					Return(&models.CourtResponse{ID: 1, Slug: "alpha-1", Name: "Alpha 1"}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "type change",
			path: "/api/v1/courts/1",
			body: `{"court_type_id":2}`,
			setup: func(m *mockService) {
				m.On("UpdateCourt", mock.Anything, int64(1), mock.MatchedBy(func(req models.UpdateCourtRequest) bool {
					return req.Name == nil && req.CourtTypeID != nil && *req.CourtTypeID == 2
				})).Return(&models.CourtResponse{ID: 1, Slug: "court-1"}, nil)
			},
			wantCode: http.StatusOK,
		},
		{name: "bad id", path: "/api/v1/courts/x", body: `{"name":"A"}`, wantCode: http.StatusBadRequest},
		{name: "slug is not accepted", path: "/api/v1/courts/1", body: `{"slug":"mine"}`, wantCode: http.StatusBadRequest},
		{name: "zero type", path: "/api/v1/courts/1", body: `{"court_type_id":0}`, wantCode: http.StatusBadRequest},
		{
			name: "empty body",
			path: "/api/v1/courts/1",
			body: `{}`,
			setup: func(m *mockService) {
				m.On("UpdateCourt", mock.Anything, int64(1), mock.Anything).Return(nil, courts.ErrInvalidInput)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown court",
			path: "/api/v1/courts/9",
			body: `{"name":"Court 9"}`,
			setup: func(m *mockService) {
				m.On("UpdateCourt", mock.Anything, int64(9), mock.Anything).Return(nil, courts.ErrCourtNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "unknown type",
			path: "/api/v1/courts/1",
			body: `{"court_type_id":99}`,
			setup: func(m *mockService) {
				m.On("UpdateCourt", mock.Anything, int64(1), mock.Anything).Return(nil, courts.ErrCourtTypeNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "slug taken",
			path: "/api/v1/courts/1",
			body: `{"name":"Court 2"}`,
			setup: func(m *mockService) {
				m.On("UpdateCourt", mock.Anything, int64(1), mock.Anything).Return(nil, courts.ErrSlugTaken)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &mockService{}
			if tt.setup != nil {
				tt.setup(svc)
			}

			w := serve(svc, tt.path, tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
