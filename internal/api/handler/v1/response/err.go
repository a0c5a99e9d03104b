package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Err is the JSON body of every failed request. Err keeps the cause for the
// logs and is never serialized.
type Err struct {
	HTTPStatusCode int    `json:"-"`
	Status         string `json:"status" example:"error"`
	Detail         string `json:"detail" example:"Item with id 1 not found"`
	Err            error  `json:"-"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.Detail
	}
	return fmt.Sprintf("%s: %v", e.Detail, e.Err)
}

func RenderErr(ctx *gin.Context, e *Err) {
	fields := []zap.Field{
		zap.Int("status", e.HTTPStatusCode),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.String("request_id", requestid.Get(ctx)),
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.Detail, fields...)
	} else {
		zap.L().Info(e.Detail, fields...)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(code int, err error, detail string) *Err {
	return &Err{
		HTTPStatusCode: code,
		Status:         StatusError,
		Detail:         detail,
		Err:            err,
	}
}

func ErrBadRequest(err error, detail string) *Err {
	return newErr(http.StatusBadRequest, err, detail)
}

func ErrUnprocessableEntity(err error, detail string) *Err {
	return newErr(http.StatusUnprocessableEntity, err, detail)
}

func ErrNotFound(resource, key string, value any) *Err {
	return newErr(http.StatusNotFound, nil, fmt.Sprintf("%s with %s %v not found", resource, key, value))
}

func ErrServiceUnavailable(err error, detail string) *Err {
	return newErr(http.StatusServiceUnavailable, err, detail)
}

// ErrInternalServerError hides err from the client; it only reaches the logs.
func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, err, "Internal server error")
}
