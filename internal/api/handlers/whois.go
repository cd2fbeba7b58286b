package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/lookup"
)

type WhoisRequest struct {
	DomainName string `json:"domain_name" binding:"required"`
	InfoType   string `json:"info_type" binding:"required"`
}

// Whois answers POST /api/whois with either domain or contact facts.
func (h *Handler) Whois(c *gin.Context) {
	var req WhoisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	record, err := h.lookup.Lookup(ctx, req.DomainName, req.InfoType)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) writeLookupError(c *gin.Context, err error) {
	var ue *lookup.UpstreamError

	switch {
	case errors.Is(err, lookup.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.As(err, &ue):
		status, msg := http.StatusBadGateway, "Upstream lookup failed"
		if ue.Timeout() {
			status, msg = http.StatusGatewayTimeout, "Upstream lookup timed out"
		}
		c.JSON(status, gin.H{
			"error":  msg,
			"detail": ue.Err.Error(),
		})

	default:
		h.logger.Error("Unexpected lookup failure",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
