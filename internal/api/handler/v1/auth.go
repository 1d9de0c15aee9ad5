package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanbit-bazaar/tickets-api/internal/api/handler/v1/request"
	"github.com/hanbit-bazaar/tickets-api/internal/api/handler/v1/response"
	"github.com/hanbit-bazaar/tickets-api/internal/config"
	"github.com/hanbit-bazaar/tickets-api/internal/pkg/jwthelper"
	"github.com/hanbit-bazaar/tickets-api/internal/service"
)

type AuthService interface {
	Login(password string) error
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleAdminLogin godoc
// @Summary      Exchange the admin password for a bearer token
// @Tags         auth
// @Produce      json
// @Param        request   body      request.AdminLoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/admin [post]
func (h *AuthHandler) HandleAdminLogin(ctx *gin.Context) {
	req := request.AdminLoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.Login(req.Password); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleAdminLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ttl := time.Duration(h.conf.AdminTokenTTLMinutes) * time.Minute
	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), ctx.Request.UserAgent(), ttl)
	if err != nil {
		err = fmt.Errorf("v1.HandleAdminLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
	})
}
