package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

const RegistryName = "registry"

// RegistryClient queries registry WHOIS servers directly over port 43 and
// reshapes the parsed answer into the same document the HTTP provider
// returns.
type RegistryClient struct {
	query func(domain string) (string, error)
}

func NewRegistryClient(timeout time.Duration) *RegistryClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := whois.NewClient().SetTimeout(timeout)
	return &RegistryClient{
		query: func(domain string) (string, error) {
			return client.Whois(domain)
		},
	}
}

func (c *RegistryClient) Name() string { return RegistryName }

type registryResult struct {
	raw string
	err error
}

func (c *RegistryClient) Fetch(ctx context.Context, domain string) ([]byte, error) {
	// the whois client has no context support, so the query runs on its own
	// goroutine and is abandoned if ctx ends first
	done := make(chan registryResult, 1)
	go func() {
		raw, err := c.query(domain)
		done <- registryResult{raw: raw, err: err}
	}()

	var res registryResult
	select {
	case <-ctx.Done():
		return nil, contextError(ctx, RegistryName)
	case res = <-done:
	}

	if res.err != nil {
		return nil, newError(KindTransport, RegistryName, "whois lookup failed", res.err)
	}

	info, err := whoisparser.Parse(res.raw)
	if err != nil {
		if isRegistryVerdict(err) {
			return nil, newError(KindProvider, RegistryName, err.Error(), err)
		}
		return nil, newError(KindDecode, RegistryName, "whois parse failed", err)
	}
	// the parser accepts some registry "no match" answers without error
	if info.Domain == nil || info.Domain.Domain == "" {
		return nil, newError(KindProvider, RegistryName, "domain not found", whoisparser.ErrNotFoundDomain)
	}

	body, err := json.Marshal(map[string]any{"WhoisRecord": recordFromWhois(info)})
	if err != nil {
		return nil, newError(KindDecode, RegistryName, "failed to encode record", err)
	}
	return body, nil
}

func isRegistryVerdict(err error) bool {
	return errors.Is(err, whoisparser.ErrNotFoundDomain) ||
		errors.Is(err, whoisparser.ErrReservedDomain) ||
		errors.Is(err, whoisparser.ErrPremiumDomain) ||
		errors.Is(err, whoisparser.ErrBlockedDomain) ||
		errors.Is(err, whoisparser.ErrDomainLimitExceed)
}

type registryContact struct {
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
	Country      string `json:"country,omitempty"`
}

type registryRecord struct {
	DomainName            string           `json:"domainName,omitempty"`
	RegistrarName         string           `json:"registrarName,omitempty"`
	CreatedDate           string           `json:"createdDate,omitempty"`
	UpdatedDate           string           `json:"updatedDate,omitempty"`
	ExpiresDate           string           `json:"expiresDate,omitempty"`
	Status                string           `json:"status,omitempty"`
	NameServers           *nameServerList  `json:"nameServers,omitempty"`
	ContactEmail          string           `json:"contactEmail,omitempty"`
	Registrant            *registryContact `json:"registrant,omitempty"`
	RegistrantContact     *registryContact `json:"registrantContact,omitempty"`
	TechnicalContact      *registryContact `json:"technicalContact,omitempty"`
	AdministrativeContact *registryContact `json:"administrativeContact,omitempty"`
}

type nameServerList struct {
	HostNames []string `json:"hostNames"`
}

func recordFromWhois(info whoisparser.WhoisInfo) registryRecord {
	var rec registryRecord
	if d := info.Domain; d != nil {
		rec.DomainName = strings.ToLower(d.Domain)
		rec.CreatedDate = d.CreatedDate
		rec.UpdatedDate = d.UpdatedDate
		rec.ExpiresDate = d.ExpirationDate
		rec.Status = strings.Join(d.Status, " ")
		if len(d.NameServers) > 0 {
			hosts := make([]string, 0, len(d.NameServers))
			for _, ns := range d.NameServers {
				hosts = append(hosts, strings.ToLower(ns))
			}
			rec.NameServers = &nameServerList{HostNames: hosts}
		}
	}
	if info.Registrar != nil {
		rec.RegistrarName = info.Registrar.Name
	}
	rec.RegistrantContact = toContact(info.Registrant)
	rec.TechnicalContact = toContact(info.Technical)
	rec.AdministrativeContact = toContact(info.Administrative)
	rec.Registrant = rec.RegistrantContact

	for _, c := range []*whoisparser.Contact{info.Registrant, info.Administrative, info.Technical} {
		if c != nil && c.Email != "" {
			rec.ContactEmail = c.Email
			break
		}
	}
	return rec
}

func toContact(c *whoisparser.Contact) *registryContact {
	if c == nil {
		return nil
	}
	out := &registryContact{
		Name:         c.Name,
		Organization: c.Organization,
		Email:        c.Email,
		Country:      c.Country,
	}
	if *out == (registryContact{}) {
		return nil
	}
	return out
}
