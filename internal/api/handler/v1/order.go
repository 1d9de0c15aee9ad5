package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hanbit-bazaar/tickets-api/internal/api/handler/v1/request"
	"github.com/hanbit-bazaar/tickets-api/internal/api/handler/v1/response"
	"github.com/hanbit-bazaar/tickets-api/internal/domain"
	"github.com/hanbit-bazaar/tickets-api/internal/service"
)

var errInvalidOrderID = errors.New("invalid order ID")

type OrderService interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) (domain.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{
		svc: svc,
	}
}

// HandleCreateOrder godoc
// @Summary      Create a pending order
// @Tags         orders
// @Produce      json
// @Param        request   body      request.CreateOrderRequest true "request body"
// @Success      201      {object}   domain.Order
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orders [post]
func (h *OrderHandler) HandleCreateOrder(ctx *gin.Context) {
	req := request.CreateOrderRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	order, err := h.svc.CreateOrder(ctx.Request.Context(), domain.Order{
		BuyerName:   req.BuyerName,
		BuyerPhone:  req.BuyerPhone,
		Quantity:    req.Quantity,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		if errors.Is(err, service.ErrAmountMismatch) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrAmountMismatch))

			return
		}

		err = fmt.Errorf("v1.HandleCreateOrder -> h.svc.CreateOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleListOrders godoc
// @Summary      List orders with their tickets, newest first
// @Tags         orders
// @Produce      json
// @Param        status   query     string false "filter by status"
// @Param        name     query     string false "filter by buyer name"
// @Param        phone    query     string false "filter by buyer phone"
// @Success      200      {array}   domain.Order
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	req := request.ListOrdersQuery{}
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	orders, err := h.svc.ListOrders(ctx.Request.Context(), domain.OrderFilter{
		Status:     domain.OrderStatus(req.Status),
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrders -> h.svc.ListOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleUpdateOrderStatus godoc
// @Summary      Confirm payment or cancel a pending order
// @Description  Setting status to paid issues the order's tickets.
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int true "order ID"
// @Param        request  body      request.UpdateOrderStatusRequest true "request body"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerAuth
// @Router       /orders/{orderID} [patch]
func (h *OrderHandler) HandleUpdateOrderStatus(ctx *gin.Context) {
	orderID, err := parseIDParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errInvalidOrderID))

		return
	}

	req := request.UpdateOrderStatusRequest{}
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	order, err := h.svc.UpdateOrderStatus(ctx.Request.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrOrderNotFound))
		case errors.Is(err, service.ErrOrderNotPending):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrOrderNotPending))
		case errors.Is(err, service.ErrUnsupportedStatus):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUnsupportedStatus))
		default:
			err = fmt.Errorf("v1.HandleUpdateOrderStatus -> h.svc.UpdateOrderStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleDeleteOrder godoc
// @Summary      Delete an order and all tickets it owns
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int true "order ID"
// @Success      200      {object}  response.DeleteOrderResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerAuth
// @Router       /orders/{orderID} [delete]
func (h *OrderHandler) HandleDeleteOrder(ctx *gin.Context) {
	orderID, err := parseIDParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errInvalidOrderID))

		return
	}

	if err = h.svc.DeleteOrder(ctx.Request.Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrOrderNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteOrder -> h.svc.DeleteOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.DeleteOrderResponse{Success: true})
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
