package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	whoisparser "github.com/likexian/whois-parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const verisignAnswer = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Registrar URL: http://res-dom.iana.org
   Updated Date: 2024-08-14T07:01:34Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2025-08-13T04:00:00Z
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Registrar IANA ID: 376
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
   DNSSEC: signedDelegation
`

func stubRegistry(raw string, err error) *RegistryClient {
	return &RegistryClient{query: func(string) (string, error) { return raw, err }}
}

func TestRegistryFetch(t *testing.T) {
	t.Run("parsed answer is reshaped into a record", func(t *testing.T) {
		body, err := stubRegistry(verisignAnswer, nil).Fetch(context.Background(), "example.com")
		require.NoError(t, err)

		rec := gjson.GetBytes(body, "WhoisRecord")
		require.True(t, rec.IsObject())
		assert.Equal(t, "example.com", rec.Get("domainName").String())
		assert.Equal(t, "RESERVED-Internet Assigned Numbers Authority", rec.Get("registrarName").String())
		assert.Equal(t, "1995-08-14T04:00:00Z", rec.Get("createdDate").String())
		assert.Equal(t, "2025-08-13T04:00:00Z", rec.Get("expiresDate").String())

		var hosts []string
		for _, h := range rec.Get("nameServers.hostNames").Array() {
			hosts = append(hosts, h.String())
		}
		assert.Equal(t, []string{"a.iana-servers.net", "b.iana-servers.net"}, hosts)
	})

	t.Run("query failure is a transport error", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		_, err := stubRegistry("", cause).Fetch(context.Background(), "example.com")

		assert.Equal(t, KindTransport, KindOf(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("unknown domain is a provider error", func(t *testing.T) {
		body, err := stubRegistry(`No match for domain "NOPE-NOPE.COM".`, nil).Fetch(context.Background(), "nope-nope.com")

		assert.Nil(t, body)
		assert.Equal(t, KindProvider, KindOf(err))
		assert.ErrorIs(t, err, whoisparser.ErrNotFoundDomain)
	})

	t.Run("context ends before the query returns", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		c := &RegistryClient{query: func(string) (string, error) {
			<-release
			return verisignAnswer, nil
		}}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := c.Fetch(ctx, "example.com")
		assert.Equal(t, KindCanceled, KindOf(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestNewRegistryClient(t *testing.T) {
	c := NewRegistryClient(0)
	assert.Equal(t, RegistryName, c.Name())
	assert.NotNil(t, c.query)
}
