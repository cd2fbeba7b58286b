package lookup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/core"
	"github.com/leozw/whois-lookup/internal/normalize"
	"github.com/leozw/whois-lookup/internal/upstream"
)

// Outcome labels a finished lookup for metrics.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeInvalidRequest Outcome = "invalid_request"
	OutcomeUpstreamError  Outcome = "upstream_error"
)

// Recorder receives one observation per lookup.
type Recorder interface {
	ObserveLookup(infoType core.InfoType, outcome Outcome, elapsed time.Duration)
	ObserveUpstreamError(provider string, kind upstream.Kind)
}

type noopRecorder struct{}

func (noopRecorder) ObserveLookup(core.InfoType, Outcome, time.Duration) {}
func (noopRecorder) ObserveUpstreamError(string, upstream.Kind)          {}

type Service struct {
	fetcher    upstream.Fetcher
	normalizer *normalize.Normalizer
	recorder   Recorder
	logger     *zap.Logger
}

// NewService wires a lookup service. A nil recorder disables metrics.
func NewService(fetcher upstream.Fetcher, normalizer *normalize.Normalizer, recorder Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:    fetcher,
		normalizer: normalizer,
		recorder:   recorder,
		logger:     logger,
	}
}

// Lookup validates the request, fetches the upstream document once and
// normalizes it into the requested record. It returns an
// *InvalidRequestError before touching the provider, or an *UpstreamError
// when the fetch fails. Normalization itself never fails.
func (s *Service) Lookup(ctx context.Context, domainName, infoType string) (core.Record, error) {
	start := time.Now()

	req, err := ParseRequest(domainName, infoType)
	if err != nil {
		s.recorder.ObserveLookup("unknown", OutcomeInvalidRequest, time.Since(start))
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, req.DomainName)
	if err != nil {
		kind := upstream.KindOf(err)
		s.recorder.ObserveUpstreamError(s.fetcher.Name(), kind)
		s.recorder.ObserveLookup(req.InfoType, OutcomeUpstreamError, time.Since(start))
		s.logger.Error("Upstream lookup failed",
			zap.String("domain", req.DomainName),
			zap.String("info_type", string(req.InfoType)),
			zap.String("provider", s.fetcher.Name()),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, &UpstreamError{Domain: req.DomainName, Err: err}
	}

	doc := normalize.ParseDocument(body)

	var record core.Record
	switch req.InfoType {
	case core.InfoTypeContact:
		record = s.normalizer.NormalizeContact(doc)
	default:
		record = s.normalizer.NormalizeDomain(doc)
	}

	s.recorder.ObserveLookup(req.InfoType, OutcomeSuccess, time.Since(start))
	s.logger.Debug("Lookup completed",
		zap.String("domain", req.DomainName),
		zap.String("info_type", string(req.InfoType)),
		zap.Duration("duration", time.Since(start)))

	return record, nil
}
