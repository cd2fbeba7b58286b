package lookup

import (
	"strings"

	"github.com/miekg/dns"

	"github.com/leozw/whois-lookup/internal/core"
)

// CleanDomain strips what users commonly paste around a domain name: a URL
// scheme, a path, surrounding whitespace and a trailing dot.
func CleanDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	domain = strings.ToLower(domain)
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.Split(domain, "/")[0]
	return strings.TrimSuffix(domain, ".")
}

// ParseRequest validates a lookup. The info type is checked before the domain
// so a bad category is reported even when both fields are wrong.
func ParseRequest(domainName, infoType string) (core.LookupRequest, error) {
	it, ok := core.ParseInfoType(infoType)
	if !ok {
		return core.LookupRequest{}, &InvalidRequestError{
			Field:  "info_type",
			Value:  infoType,
			Reason: "must be one of domain, contact",
		}
	}

	domain := CleanDomain(domainName)
	if domain == "" {
		return core.LookupRequest{}, &InvalidRequestError{
			Field:  "domain_name",
			Value:  domainName,
			Reason: "must not be empty",
		}
	}
	if _, isDomain := dns.IsDomainName(domain); !isDomain || !hostnameChars(domain) {
		return core.LookupRequest{}, &InvalidRequestError{
			Field:  "domain_name",
			Value:  domainName,
			Reason: "not a valid domain name",
		}
	}

	return core.LookupRequest{DomainName: domain, InfoType: it}, nil
}

// hostnameChars rejects ASCII that cannot appear in a host name. Non-ASCII
// runes pass so internationalized names reach the provider unchanged.
func hostnameChars(domain string) bool {
	for _, r := range domain {
		switch {
		case r >= 0x80:
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
		default:
			return false
		}
	}
	return true
}
