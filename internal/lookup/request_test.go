package lookup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leozw/whois-lookup/internal/core"
)

func TestCleanDomain(t *testing.T) {
	cases := map[string]string{
		"example.com":                  "example.com",
		"  Example.COM ":               "example.com",
		"https://example.com/path?q=1": "example.com",
		"http://sub.example.co.uk/":    "sub.example.co.uk",
		"example.com.":                 "example.com",
		"":                             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanDomain(in), in)
	}
}

func TestParseRequest(t *testing.T) {
	t.Run("info type is case insensitive", func(t *testing.T) {
		req, err := ParseRequest("example.com", "DOMAIN")
		require.NoError(t, err)
		assert.Equal(t, core.LookupRequest{DomainName: "example.com", InfoType: core.InfoTypeDomain}, req)

		req, err = ParseRequest("example.com", " Contact ")
		require.NoError(t, err)
		assert.Equal(t, core.InfoTypeContact, req.InfoType)
	})

	t.Run("unknown info type", func(t *testing.T) {
		_, err := ParseRequest("example.com", "invalid")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRequest))

		var ire *InvalidRequestError
		require.True(t, errors.As(err, &ire))
		assert.Equal(t, "info_type", ire.Field)
		assert.Equal(t, "invalid", ire.Value)
	})

	t.Run("info type is checked first", func(t *testing.T) {
		_, err := ParseRequest("", "")
		var ire *InvalidRequestError
		require.True(t, errors.As(err, &ire))
		assert.Equal(t, "info_type", ire.Field)
	})

	for _, domain := range []string{"", "   ", "https://", "exa mple.com", "example..com", "bad;domain.com"} {
		t.Run("rejects domain "+domain, func(t *testing.T) {
			_, err := ParseRequest(domain, "domain")
			require.ErrorIs(t, err, ErrInvalidRequest)

			var ire *InvalidRequestError
			require.True(t, errors.As(err, &ire))
			assert.Equal(t, "domain_name", ire.Field)
		})
	}

	t.Run("accepts pasted urls and idn", func(t *testing.T) {
		req, err := ParseRequest("https://Example.com/about", "domain")
		require.NoError(t, err)
		assert.Equal(t, "example.com", req.DomainName)

		req, err = ParseRequest("bücher.de", "domain")
		require.NoError(t, err)
		assert.Equal(t, "bücher.de", req.DomainName)
	})

	t.Run("single label names are forwarded", func(t *testing.T) {
		for _, name := range []string{"localhost", "com", "IO."} {
			_, err := ParseRequest(name, "domain")
			assert.NoError(t, err, name)
		}
	})
}
