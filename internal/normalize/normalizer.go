package normalize

import (
	"time"

	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/core"
)

const (
	daysPerYear   = 365
	secondsPerDay = 24 * 60 * 60
)

// Observer is told about normalization events worth counting.
type Observer interface {
	ObserveContactFallback(role Role)
}

type noopObserver struct{}

func (noopObserver) ObserveContactFallback(Role) {}

// Normalizer turns upstream records into facts records. It holds no per-call
// state and is safe for concurrent use.
type Normalizer struct {
	now      func() time.Time
	logger   *zap.Logger
	observer Observer
}

type Option func(*Normalizer)

// WithClock replaces time.Now for age computation.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) { n.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(n *Normalizer) { n.observer = o }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:      time.Now,
		logger:   zap.NewNop(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizeDomain builds domain facts. Every field degrades to absent or
// empty on its own; the call never fails.
func (n *Normalizer) NormalizeDomain(doc Document) core.DomainFacts {
	domainName, _ := doc.String("domainName")

	registrar, _ := firstOf(doc,
		func(d Document) (string, bool) { return d.String("registrarName") },
		func(d Document) (string, bool) { return d.String("registrar", "name") },
	)

	facts := core.DomainFacts{
		DomainName:       domainName,
		Registrar:        registrar,
		HostnamesDisplay: ResolveHostnames(doc),
	}

	if created, ok := ResolveDate(doc, "createdDate"); ok {
		age := EstimateAgeYears(created, core.Naive(n.now()))
		facts.RegistrationDate = &created
		facts.EstimatedDomainAgeYears = &age
	}
	if expires, ok := ResolveDate(doc, "expiresDate"); ok {
		facts.ExpirationDate = &expires
	}

	return facts
}

// NormalizeContact builds contact facts. Missing names come back as empty
// strings.
func (n *Normalizer) NormalizeContact(doc Document) core.ContactFacts {
	return core.ContactFacts{
		RegistrantName:            n.contactName(doc, RoleRegistrant),
		TechnicalContactName:      n.contactName(doc, RoleTechnical),
		AdministrativeContactName: n.contactName(doc, RoleAdministrative),
		ContactEmail:              ResolveContactEmail(doc),
	}
}

func (n *Normalizer) contactName(doc Document, role Role) string {
	c := ResolveContact(doc, role)
	if c.Source == SourceGenericRegistrant && role != RoleRegistrant {
		n.logger.Warn("No role-specific contact, using registrant block",
			zap.String("role", string(role)),
		)
		n.observer.ObserveContactFallback(role)
	}
	return c.Name
}

// EstimateAgeYears is the number of whole days between registered and now,
// floor-divided by 365. Both times are naive.
func EstimateAgeYears(registered, now core.Timestamp) int {
	// whole seconds, floored; time.Duration would saturate near 292 years
	secs := now.Unix() - registered.Unix()
	if now.Nanosecond() < registered.Nanosecond() {
		secs--
	}
	days := floorDiv(secs, secondsPerDay)
	return int(floorDiv(days, daysPerYear))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
