package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/vehicleplan-backend/internal/adapter/api"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/auth"
)

// MockProjector is a mock implementation of Projector for testing
type MockProjector struct {
	mock.Mock
}

func (m *MockProjector) Project(ctx context.Context, userID string, input domain.GoalInput) (*domain.ProjectionResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectionResult), args.Error(1)
}

func (m *MockProjector) CheckPromotions(ctx context.Context, model string) (bool, error) {
	args := m.Called(ctx, model)
	return args.Bool(0), args.Error(1)
}

// MockAuthenticator is a mock implementation of Authenticator for testing
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) VerifyToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type fixture struct {
	router    http.Handler
	projector *MockProjector
	auth      *MockAuthenticator
}

func newFixture() *fixture {
	projector := new(MockProjector)
	authenticator := new(MockAuthenticator)
	authenticator.On("VerifyToken", "good-token").Return("testuser", nil)
	authenticator.On("VerifyToken", mock.Anything).Return("", auth.ErrInvalidToken)

	log, _ := logtest.NewNullLogger()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("# metrics")) })
	h := NewHandler(projector, authenticator, log)

	return &fixture{router: h.Router(metrics), projector: projector, auth: authenticator}
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Project(t *testing.T) {
	f := newFixture()
	purchase := time.Date(2027, time.June, 16, 0, 0, 0, 0, time.UTC)
	f.projector.On("Project", mock.Anything, "testuser", mock.MatchedBy(func(g domain.GoalInput) bool {
		return g.PaymentMethod == domain.PaymentMethodCash &&
			g.DownPaymentTarget.Equal(decimal.NewFromInt(20000)) &&
			g.MonthlySaving.Equal(decimal.NewFromInt(3000))
	})).Return(&domain.ProjectionResult{
		PaymentMethod:    domain.PaymentMethodCash,
		PurchaseDate:     purchase,
		MonthsToPurchase: 7,
		Timeline:         []domain.TimelinePoint{{Date: purchase, Savings: decimal.NewFromInt(21000)}},
	}, nil)

	rec := f.do(http.MethodPost, "/projections", `{"payment_method":"cash","down_payment":20000,"monthly_saving":"3000"}`, "good-token")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.ProjectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CASH", resp.PaymentMethod)
	assert.Equal(t, "2027-06-16", resp.EstimatedDate)
	assert.Equal(t, 7, resp.MonthsToPurchase)
	require.Len(t, resp.TimeChart, 1)
	assert.True(t, resp.TimeChart[0].Savings.Equal(decimal.NewFromInt(21000)))
}

func TestHandler_Project_Errors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		err          error
		expectedCode int
		field        string
	}{
		{name: "Bad JSON", body: `{`, expectedCode: http.StatusBadRequest},
		{name: "Bad payment method", body: `{"payment_method":"lease"}`, expectedCode: http.StatusBadRequest, field: "payment_method"},
		{
			name:         "Validation",
			body:         `{"payment_method":"cash"}`,
			err:          domain.NewValidationError("monthly_saving", "must be positive"),
			expectedCode: http.StatusBadRequest,
			field:        "monthly_saving",
		},
		{
			name:         "Diverged",
			body:         `{"payment_method":"financing","max_emi":1}`,
			err:          &domain.ProjectionDivergedError{Phase: "amortization", Months: 600},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:         "Internal",
			body:         `{"payment_method":"cash"}`,
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.err != nil {
				f.projector.On("Project", mock.Anything, "testuser", mock.Anything).Return(nil, tt.err)
			}

			rec := f.do(http.MethodPost, "/projections", tt.body, "good-token")

			assert.Equal(t, tt.expectedCode, rec.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.field, resp.Field)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandler_Auth(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/projections", `{}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/projections", `{}`, "bad-token").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/promotions/Maybach%20S-Class", "", "").Code)
	f.projector.AssertNotCalled(t, "Project", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Login(t *testing.T) {
	f := newFixture()
	f.auth.On("Login", mock.Anything, "testuser", "password123").Return("good-token", nil)
	f.auth.On("Login", mock.Anything, "testuser", "nope").Return("", auth.ErrInvalidCredentials)

	rec := f.do(http.MethodPost, "/login", `{"username":"testuser","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "good-token", resp.Token)

	rec = f.do(http.MethodPost, "/login", `{"username":"testuser","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_CheckPromotions(t *testing.T) {
	f := newFixture()
	f.projector.On("CheckPromotions", mock.Anything, "Mercedes E-Class").Return(true, nil)

	rec := f.do(http.MethodGet, "/promotions/Mercedes%20E-Class", "", "good-token")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.PromotionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.PromotionResponse{Model: "Mercedes E-Class", Promotion: true}, resp)
}

func TestHandler_PublicRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}
