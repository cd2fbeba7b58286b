package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/core"
)

// Lookuper is the lookup service as seen by the HTTP layer.
type Lookuper interface {
	Lookup(ctx context.Context, domainName, infoType string) (core.Record, error)
}

type Handler struct {
	lookup  Lookuper
	timeout time.Duration
	logger  *zap.Logger
}

// NewHandler builds the handlers. timeout bounds each upstream lookup.
func NewHandler(lookup Lookuper, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		lookup:  lookup,
		timeout: timeout,
		logger:  logger,
	}
}
