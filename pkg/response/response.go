package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform error payload for all endpoints.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OK sends a 200 response with the given payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: "Bad Request", Message: msg})
}

// Unauthorized sends the uniform 401 body. Authentication failures of every
// kind use the same message so responses carry no verification oracle.
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorBody{Error: "Unauthorized", Message: "Authentication required"})
}

// UnauthorizedMsg sends a 401 with a caller-chosen message (login uses a
// single fixed message for every credential failure).
func UnauthorizedMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, ErrorBody{Error: "Unauthorized", Message: msg})
}

// Forbidden sends the uniform 403 body for role mismatches.
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, ErrorBody{Error: "Forbidden", Message: "Insufficient permissions"})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, ErrorBody{Error: "Not Found", Message: msg})
}

func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, ErrorBody{Error: "Conflict", Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error", Message: msg})
}
