package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-bazaar/tickets-api/internal/domain"
	"github.com/hanbit-bazaar/tickets-api/internal/repository/dao"
	"github.com/hanbit-bazaar/tickets-api/internal/service"
)

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) RedeemTicket(ctx context.Context, id uint, usedBy string) (domain.Ticket, error) {
	args := m.Called(ctx, id, usedBy)
	return args.Get(0).(domain.Ticket), args.Error(1)
}

func (m *MockTicketService) LookupByBuyer(ctx context.Context, buyerName, buyerPhone string) ([]domain.Order, error) {
	args := m.Called(ctx, buyerName, buyerPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockTicketService) FindTicketByNumber(ctx context.Context, number string) (domain.Ticket, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(domain.Ticket), args.Error(1)
}

func (m *MockTicketService) RenumberTickets(ctx context.Context) (domain.RenumberReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RenumberReport), args.Error(1)
}

func setupTicketRouter(svc TicketService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewTicketHandler(svc)
	router := gin.New()
	router.GET("/tickets", handler.HandleLookupTickets)
	router.POST("/tickets/:ticketID/use", handler.HandleRedeemTicket)
	router.GET("/tickets/number/:number", handler.HandleFindTicketByNumber)
	router.POST("/admin/tickets/renumber", handler.HandleRenumberTickets)

	return router
}

func TestHandleRedeemTicket(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockTicketService{}
		usedAt := time.Now()
		svc.On("RedeemTicket", mock.Anything, uint(12), "admin").
			Return(domain.Ticket{ID: 12, Status: domain.TicketUsed, UsedAt: &usedAt, UsedBy: "admin"}, nil).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/12/use", strings.NewReader(`{"used_by":"admin"}`))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var ticket domain.Ticket
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
		assert.Equal(t, domain.TicketUsed, ticket.Status)
		assert.Equal(t, "admin", ticket.UsedBy)

		svc.AssertExpectations(t)
	})

	t.Run("empty body defaults the redeemer", func(t *testing.T) {
		svc := &MockTicketService{}
		svc.On("RedeemTicket", mock.Anything, uint(12), "").
			Return(domain.Ticket{ID: 12, Status: domain.TicketUsed}, nil).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/12/use", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("already used renders a conflict with used_at", func(t *testing.T) {
		svc := &MockTicketService{}
		firstUse := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
		svc.On("RedeemTicket", mock.Anything, uint(12), "").
			Return(domain.Ticket{}, &dao.AlreadyUsedError{UsedAt: firstUse, UsedBy: "staff"}).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/12/use", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)

		var body struct {
			Error  string     `json:"error"`
			UsedAt *time.Time `json:"used_at"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.UsedAt)
		assert.True(t, firstUse.Equal(*body.UsedAt))
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockTicketService{}
		svc.On("RedeemTicket", mock.Anything, uint(404), "").
			Return(domain.Ticket{}, service.ErrTicketNotFound).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/404/use", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("not active", func(t *testing.T) {
		svc := &MockTicketService{}
		svc.On("RedeemTicket", mock.Anything, uint(5), "").
			Return(domain.Ticket{}, service.ErrTicketNotActive).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/5/use", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed ticket id", func(t *testing.T) {
		svc := &MockTicketService{}
		router := setupTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/abc/use", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "RedeemTicket", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleLookupTickets(t *testing.T) {
	t.Run("returns the buyer's paid orders", func(t *testing.T) {
		svc := &MockTicketService{}
		svc.On("LookupByBuyer", mock.Anything, "Hong Gildong", "010-1111-2222").
			Return([]domain.Order{{ID: 1, Status: domain.OrderPaid}}, nil).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tickets?name=Hong+Gildong&phone=010-1111-2222", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var orders []domain.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		assert.Len(t, orders, 1)
	})

	t.Run("no match renders an empty list", func(t *testing.T) {
		svc := &MockTicketService{}
		svc.On("LookupByBuyer", mock.Anything, "Nobody", "010-0000-0000").
			Return([]domain.Order{}, nil).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tickets?name=Nobody&phone=010-0000-0000", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("missing identity fields are rejected", func(t *testing.T) {
		svc := &MockTicketService{}
		router := setupTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tickets?phone=010-1111-2222", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "LookupByBuyer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleFindTicketByNumber(t *testing.T) {
	t.Run("resolves a suffix", func(t *testing.T) {
		svc := &MockTicketService{}
		svc.On("FindTicketByNumber", mock.Anything, "0007").
			Return(domain.Ticket{ID: 7, TicketNumber: "0007"}, nil).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tickets/number/0007", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ambiguous suffix is a conflict", func(t *testing.T) {
		svc := &MockTicketService{}
		svc.On("FindTicketByNumber", mock.Anything, "1").
			Return(domain.Ticket{}, service.ErrAmbiguousTicketNumber).Once()

		router := setupTicketRouter(svc)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tickets/number/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("non-numeric input is rejected", func(t *testing.T) {
		svc := &MockTicketService{}
		router := setupTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tickets/number/00x7", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "FindTicketByNumber", mock.Anything, mock.Anything)
	})
}

func TestHandleRenumberTickets(t *testing.T) {
	svc := &MockTicketService{}
	svc.On("RenumberTickets", mock.Anything).
		Return(domain.RenumberReport{
			Total: 3,
			Changes: []domain.RenumberChange{
				{TicketID: 3, OldNumber: "0005", NewNumber: "0003"},
			},
		}, nil).Once()

	router := setupTicketRouter(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/tickets/renumber", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report domain.RenumberReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Total)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "0003", report.Changes[0].NewNumber)

	svc.AssertExpectations(t)
}
