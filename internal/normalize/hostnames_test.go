package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestHostnameList(t *testing.T) {
	t.Run("mixes strings and hostName objects", func(t *testing.T) {
		list := gjson.Parse(`["ns1.example.com", {"hostName": "ns2.example.com"}]`)

		hosts, ok := hostnameList(list)
		assert.True(t, ok)
		assert.Equal(t, []string{"ns1.example.com", "ns2.example.com"}, hosts)
		assert.Equal(t, "ns1.example.com, ns2.example.com", strings.Join(hosts, hostnamesSeparator))
	})

	t.Run("skips entries of any other shape", func(t *testing.T) {
		list := gjson.Parse(`[42, null, {"ip": "1.2.3.4"}, {"hostName": 7}, ["nested"], "a.ns"]`)

		hosts, ok := hostnameList(list)
		assert.True(t, ok)
		assert.Equal(t, []string{"a.ns"}, hosts)
	})

	t.Run("reads the hostNames list of an object", func(t *testing.T) {
		list := gjson.Parse(`{"rawText": "NS1.GOOGLE.COM\n", "hostNames": ["NS1.GOOGLE.COM"], "ips": []}`)

		hosts, ok := hostnameList(list)
		assert.True(t, ok)
		assert.Equal(t, []string{"NS1.GOOGLE.COM"}, hosts)
	})

	t.Run("non lists yield nothing", func(t *testing.T) {
		for _, raw := range []string{`"ns1.example.com"`, `{}`, `null`, `[]`, `[1, 2]`} {
			_, ok := hostnameList(gjson.Parse(raw))
			assert.False(t, ok, raw)
		}
	})
}

func TestResolveHostnames(t *testing.T) {
	t.Run("short list is shown as is", func(t *testing.T) {
		d := doc(t, `{"nameServers": ["a.ns.io", {"hostName": "b.ns.io"}]}`)

		assert.Equal(t, "a.ns.io, b.ns.io", ResolveHostnames(d))
	})

	t.Run("long list is truncated to 25 characters", func(t *testing.T) {
		d := doc(t, `{"nameServers": ["ns1.example.com", {"hostName": "ns2.example.com"}]}`)

		got := ResolveHostnames(d)
		assert.Equal(t, "ns1.example.com, ns2.e...", got)
		assert.Len(t, got, 25)
	})

	t.Run("exactly 25 characters is not truncated", func(t *testing.T) {
		name := strings.Repeat("x", 25)
		d := doc(t, `{"nameServers": ["`+name+`"]}`)

		assert.Equal(t, name, ResolveHostnames(d))
	})

	t.Run("falls back to registryData when the record list is unusable", func(t *testing.T) {
		d := doc(t, `{
			"nameServers": [{"ip": "1.1.1.1"}],
			"registryData": {"nameServers": ["c.ns.io"]}
		}`)

		assert.Equal(t, "c.ns.io", ResolveHostnames(d))
	})

	t.Run("falls back to registryData when the record list is missing", func(t *testing.T) {
		d := doc(t, `{"registryData": {"nameServers": {"hostNames": ["d.ns.io", "e.ns.io"]}}}`)

		assert.Equal(t, "d.ns.io, e.ns.io", ResolveHostnames(d))
	})

	t.Run("record list wins over registryData", func(t *testing.T) {
		d := doc(t, `{
			"nameServers": ["a.ns.io"],
			"registryData": {"nameServers": ["c.ns.io"]}
		}`)

		assert.Equal(t, "a.ns.io", ResolveHostnames(d))
	})

	t.Run("nothing anywhere is empty", func(t *testing.T) {
		assert.Equal(t, "", ResolveHostnames(doc(t, `{}`)))
		assert.Equal(t, "", ResolveHostnames(doc(t, `{"nameServers": [], "registryData": {"nameServers": []}}`)))
	})
}

func TestFormatHostnamesLength(t *testing.T) {
	for n := 1; n <= 12; n++ {
		hosts := make([]string, n)
		for i := range hosts {
			hosts[i] = strings.Repeat("h", i+3) + ".example.net"
		}

		joined := strings.Join(hosts, hostnamesSeparator)
		got := formatHostnames(hosts)
		if utf8.RuneCountInString(joined) > hostnamesMaxLen {
			assert.Equal(t, 25, utf8.RuneCountInString(got), joined)
			assert.True(t, strings.HasSuffix(got, "..."), got)
			assert.True(t, strings.HasPrefix(joined, strings.TrimSuffix(got, "...")), got)
		} else {
			assert.Equal(t, joined, got)
		}
	}
}

func TestFormatHostnamesCountsCharacters(t *testing.T) {
	hosts := []string{"ñs1.ëxample.com", "ñs2.ëxample.com"}

	got := formatHostnames(hosts)
	assert.Equal(t, 25, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}
