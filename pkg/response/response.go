// Package response provides the uniform HTTP response envelope.
package response

import (
	"net/http"

	"sekolah/pkg/errs"
	"sekolah/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Predefined response statuses
const (
	Success = "success"
	Error   = "error"
)

/* Standard envelope
{
    "status": "success",
    "data": {},     // payload on success
    "error": "",    // machine readable detail on failure
    "message": "",  // human readable message
}
*/

// Response is the uniform envelope
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Data responds 200 with a payload.
func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: Success,
		Data:   data,
	})
}

// JSON responds 200 with raw JSON data.
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created responds 201 with a payload.
func Created(c *gin.Context, data interface{}, msg ...string) {
	c.JSON(http.StatusCreated, Response{
		Status:  Success,
		Message: getMsg("created", msg...),
		Data:    data,
	})
}

// Abort400 responds 400.
func Abort400(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Status:  Error,
		Message: getMsg("bad request", msg...),
	})
}

// Abort401 responds 401.
func Abort401(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Status:  Error,
		Message: getMsg("unauthorized", msg...),
	})
}

// Abort403 responds 403.
func Abort403(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusForbidden, Response{
		Status:  Error,
		Message: getMsg("forbidden", msg...),
	})
}

// Abort404 responds 404.
func Abort404(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusNotFound, Response{
		Status:  Error,
		Message: getMsg("resource not found", msg...),
	})
}

// Abort500 responds 500.
func Abort500(c *gin.Context, msg ...string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		Status:  Error,
		Message: getMsg("internal server error", msg...),
	})
}

// BadRequest responds 400 with error detail attached.
func BadRequest(c *gin.Context, err error, msg ...string) {
	logger.LogWarnIf(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Status:  Error,
		Message: getMsg("request malformed", msg...),
		Error:   err.Error(),
	})
}

// ValidationError responds 422 with per-field messages.
func ValidationError(c *gin.Context, errors map[string][]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Response{
		Status:  Error,
		Message: "validation failed",
		Data:    errors,
	})
}

// AppError translates the typed error taxonomy into an HTTP status.
// Internal error text never reaches the caller for 5xx class
// failures.
func AppError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Response{
			Status:  Error,
			Message: "validation failed",
			Error:   err.Error(),
		})
	case errs.IsPrecondition(err), errs.IsInvalidState(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Status:  Error,
			Message: err.Error(),
		})
	case errs.IsNotFound(err):
		Abort404(c)
	case errs.IsGateway(err):
		logger.LogIf(err)
		c.AbortWithStatusJSON(http.StatusBadGateway, Response{
			Status:  Error,
			Message: "payment gateway unavailable, please retry",
		})
	default:
		logger.LogIf(err)
		Abort500(c)
	}
}

func getMsg(defaultMsg string, msg ...string) string {
	if len(msg) > 0 {
		return msg[0]
	}
	return defaultMsg
}
