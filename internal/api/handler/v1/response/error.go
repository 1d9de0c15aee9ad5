package response

import (
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON error envelope every failed request renders.
type Err struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`

	// UsedAt is only set on already-used ticket conflicts so the caller can
	// tell a duplicate scan from a real discrepancy.
	UsedAt *time.Time `json:"used_at,omitempty"`
}

func (e *Err) Error() string {
	return e.Message
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Message:    err.Error(),
	}
}

func ErrNotFound(err error) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Message:    err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Message:    err.Error(),
	}
}

func ErrTicketAlreadyUsed(err error, usedAt time.Time) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Message:    err.Error(),
		UsedAt:     &usedAt,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
	}
}

// RenderErr writes the envelope. Server errors are also logged with the
// request id so they can be correlated with access logs.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Int("status", err.StatusCode),
			zap.String("error", err.Message),
		)
	}

	ctx.JSON(err.StatusCode, err)
}
