package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/openrdap/rdap"
)

const RDAPName = "rdap"

// RDAPClient queries RDAP servers and reshapes the domain object into the
// document layout the normalizer reads. With no server configured the IANA
// bootstrap registry picks one per TLD.
type RDAPClient struct {
	server *url.URL
	client *rdap.Client
}

func NewRDAPClient(server string, httpClient *http.Client) (*RDAPClient, error) {
	c := &RDAPClient{
		client: &rdap.Client{HTTP: httpClient, UserAgent: "whois-lookup/1.0"},
	}
	if server != "" {
		if !strings.HasSuffix(server, "/") {
			server += "/"
		}
		u, err := url.Parse(server)
		if err != nil {
			return nil, err
		}
		c.server = u
	}
	return c, nil
}

func (c *RDAPClient) Name() string { return RDAPName }

func (c *RDAPClient) Fetch(ctx context.Context, domain string) ([]byte, error) {
	req := rdap.NewDomainRequest(domain).WithContext(ctx)
	if c.server != nil {
		req = req.WithServer(c.server)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if cerr := contextError(ctx, RDAPName); cerr != nil {
			return nil, cerr
		}
		var ce *rdap.ClientError
		if errors.As(err, &ce) && ce.Type == rdap.ObjectDoesNotExist {
			return nil, newError(KindProvider, RDAPName, "domain not found", err)
		}
		return nil, newError(KindTransport, RDAPName, "rdap query failed", err)
	}

	d, ok := resp.Object.(*rdap.Domain)
	if !ok {
		return nil, newError(KindDecode, RDAPName, "response is not a domain object", nil)
	}

	body, err := json.Marshal(map[string]any{"WhoisRecord": recordFromRDAP(d)})
	if err != nil {
		return nil, newError(KindDecode, RDAPName, "failed to encode record", err)
	}
	return body, nil
}

func recordFromRDAP(d *rdap.Domain) registryRecord {
	rec := registryRecord{
		DomainName: strings.ToLower(d.LDHName),
		Status:     strings.Join(d.Status, " "),
	}

	for _, ev := range d.Events {
		switch ev.Action {
		case "registration":
			rec.CreatedDate = ev.Date
		case "last changed":
			rec.UpdatedDate = ev.Date
		case "expiration":
			rec.ExpiresDate = ev.Date
		}
	}

	if len(d.Nameservers) > 0 {
		hosts := make([]string, 0, len(d.Nameservers))
		for _, ns := range d.Nameservers {
			if ns.LDHName != "" {
				hosts = append(hosts, strings.ToLower(ns.LDHName))
			}
		}
		rec.NameServers = &nameServerList{HostNames: hosts}
	}

	for i := range d.Entities {
		e := &d.Entities[i]
		contact := rdapContact(e)
		for _, role := range e.Roles {
			switch role {
			case "registrar":
				if contact != nil {
					rec.RegistrarName = contact.Name
				}
			case "registrant":
				rec.RegistrantContact = contact
				rec.Registrant = contact
			case "technical":
				rec.TechnicalContact = contact
			case "administrative":
				rec.AdministrativeContact = contact
			}
		}
		if rec.ContactEmail == "" && contact != nil && contact.Email != "" && !slices.Contains(e.Roles, "registrar") {
			rec.ContactEmail = contact.Email
		}
	}

	return rec
}

func rdapContact(e *rdap.Entity) *registryContact {
	if e.VCard == nil {
		return nil
	}
	c := &registryContact{
		Name:  e.VCard.Name(),
		Email: e.VCard.Email(),
	}
	if *c == (registryContact{}) {
		return nil
	}
	return c
}
