package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanbit-bazaar/tickets-api/internal/api/handler/v1/request"
	"github.com/hanbit-bazaar/tickets-api/internal/api/handler/v1/response"
	"github.com/hanbit-bazaar/tickets-api/internal/domain"
	"github.com/hanbit-bazaar/tickets-api/internal/service"
)

var errInvalidTicketID = errors.New("invalid ticket ID")

type TicketService interface {
	RedeemTicket(ctx context.Context, id uint, usedBy string) (domain.Ticket, error)
	LookupByBuyer(ctx context.Context, buyerName, buyerPhone string) ([]domain.Order, error)
	FindTicketByNumber(ctx context.Context, number string) (domain.Ticket, error)
	RenumberTickets(ctx context.Context) (domain.RenumberReport, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleLookupTickets godoc
// @Summary      Look up a buyer's paid orders and tickets
// @Description  Requires exact buyer name and phone. Only paid orders are
// @Description  returned; an empty list is not an error.
// @Tags         tickets
// @Produce      json
// @Param        name     query     string true "buyer name"
// @Param        phone    query     string true "buyer phone"
// @Success      200      {array}   domain.Order
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tickets [get]
func (h *TicketHandler) HandleLookupTickets(ctx *gin.Context) {
	req := request.LookupTicketsQuery{}
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	orders, err := h.svc.LookupByBuyer(ctx.Request.Context(), req.BuyerName, req.BuyerPhone)
	if err != nil {
		if errors.Is(err, service.ErrMissingBuyerIdentity) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrMissingBuyerIdentity))

			return
		}

		err = fmt.Errorf("v1.HandleLookupTickets -> h.svc.LookupByBuyer -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleRedeemTicket godoc
// @Summary      Redeem a ticket, exactly once
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path      int true "ticket ID"
// @Param        request   body      request.RedeemTicketRequest false "request body"
// @Success      200       {object}  domain.Ticket
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err "already used; includes used_at"
// @Failure      500       {object}  response.Err
// @Security     BearerAuth
// @Router       /tickets/{ticketID}/use [post]
func (h *TicketHandler) HandleRedeemTicket(ctx *gin.Context) {
	ticketID, err := parseIDParam(ctx, "ticketID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errInvalidTicketID))

		return
	}

	// The body is optional; an empty one means the default redeemer.
	req := request.RedeemTicketRequest{}
	if err = ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.RedeemTicket(ctx.Request.Context(), ticketID, req.UsedBy)
	if err != nil {
		var alreadyUsed *service.AlreadyUsedError

		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrTicketNotFound))
		case errors.As(err, &alreadyUsed):
			response.RenderErr(ctx, response.ErrTicketAlreadyUsed(alreadyUsed, alreadyUsed.UsedAt))
		case errors.Is(err, service.ErrTicketNotActive):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrTicketNotActive))
		default:
			err = fmt.Errorf("v1.HandleRedeemTicket -> h.svc.RedeemTicket -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleFindTicketByNumber godoc
// @Summary      Find a ticket by its number or a unique suffix of it
// @Description  Exact matches win; a suffix matching more than one ticket is
// @Description  rejected rather than resolved arbitrarily.
// @Tags         tickets
// @Produce      json
// @Param        number   path      string true "ticket number, full or suffix"
// @Success      200      {object}  domain.Ticket
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerAuth
// @Router       /tickets/number/{number} [get]
func (h *TicketHandler) HandleFindTicketByNumber(ctx *gin.Context) {
	number := ctx.Param("number")
	if err := request.ValidateTicketNumber(number); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.FindTicketByNumber(ctx.Request.Context(), number)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrTicketNotFound))
		case errors.Is(err, service.ErrAmbiguousTicketNumber):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAmbiguousTicketNumber))
		default:
			err = fmt.Errorf("v1.HandleFindTicketByNumber -> h.svc.FindTicketByNumber -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleRenumberTickets godoc
// @Summary      Reassign dense sequential numbers to all tickets
// @Description  Maintenance operation. Tickets are renumbered in creation
// @Description  order and every change is reported and logged.
// @Tags         admin
// @Produce      json
// @Success      200      {object}  domain.RenumberReport
// @Failure      500      {object}  response.Err
// @Security     BearerAuth
// @Router       /admin/tickets/renumber [post]
func (h *TicketHandler) HandleRenumberTickets(ctx *gin.Context) {
	report, err := h.svc.RenumberTickets(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleRenumberTickets -> h.svc.RenumberTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, report)
}
