package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/reorder"
	"github.com/sabyy027/portfolio/internal/service"
)

// respondError maps service errors to a status and a JSON error body.
// Unexpected errors are logged and reported without detail.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, reorder.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

// ReorderFailure is the body returned when some order writes failed.
// Items is the authoritative list read back after the failure.
type ReorderFailure[T any] struct {
	Error     string   `json:"error"`
	Failed    []string `json:"failed"`
	Succeeded []string `json:"succeeded"`
	Items     []T      `json:"items"`
}

// respondReorder writes the result of a drop or one-shot reorder. A
// *reorder.BatchError becomes a 500 carrying the resynced list.
func respondReorder[T any](c *gin.Context, logger *zap.Logger, items []T, moved bool, err error) {
	var batch *reorder.BatchError
	if err != nil && errors.As(err, &batch) {
		_ = c.Error(err)
		logger.Error("reorder failed", zap.Strings("failed", batch.FailedIDs()), zap.Error(err))
		if items == nil {
			items = []T{}
		}
		succeeded := batch.Succeeded
		if succeeded == nil {
			succeeded = []string{}
		}
		c.JSON(http.StatusInternalServerError, ReorderFailure[T]{
			Error:     "failed to persist new order",
			Failed:    batch.FailedIDs(),
			Succeeded: succeeded,
			Items:     items,
		})
		return
	}
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "items": items})
}
