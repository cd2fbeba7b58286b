package upstream

import (
	"fmt"

	"github.com/leozw/whois-lookup/internal/config"
)

// NewFetcher picks the provider named in cfg.
func NewFetcher(cfg config.UpstreamConfig) (Fetcher, error) {
	switch cfg.Provider {
	case config.ProviderWhoisXML, "":
		return NewWhoisXMLClient(cfg.URL, cfg.APIKey, nil), nil
	case config.ProviderRegistry:
		return NewRegistryClient(cfg.Timeout), nil
	case config.ProviderRDAP:
		return NewRDAPClient(cfg.RDAPServer, nil)
	default:
		return nil, fmt.Errorf("unknown upstream provider %q", cfg.Provider)
	}
}
