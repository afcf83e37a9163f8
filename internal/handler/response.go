package handler

import (
	"errors"
	"net/http"

	"washworks-be/internal/branch"
	"washworks-be/internal/inspection"
	"washworks-be/internal/logger"
	"washworks-be/internal/order"
	"washworks-be/internal/packages"
	"washworks-be/internal/product"
	"washworks-be/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP statuses. Validation failures are
// the caller's fault, missing entities are 404, rejected lifecycle moves
// are 409, everything else is a 500 with the detail kept in the log.
func writeError(c *gin.Context, err error) {
	switch {
	case validation.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, branch.ErrBranchNotFound),
		errors.Is(err, packages.ErrPackageNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, inspection.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.FromCtx(c.Request.Context()).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
