package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	hostnamesMaxLen    = 25
	hostnamesKeepLen   = 22
	hostnamesEllipsis  = "..."
	hostnamesSeparator = ", "
)

// ResolveHostnames reads nameServers, falling back to registryData.nameServers
// when the first yields nothing usable, and formats the result for display.
func ResolveHostnames(doc Document) string {
	hosts, ok := firstOf(doc,
		func(d Document) ([]string, bool) { return hostnameList(d.Get("nameServers")) },
		func(d Document) ([]string, bool) { return hostnameList(d.Get("registryData", "nameServers")) },
	)
	if !ok {
		return ""
	}
	return formatHostnames(hosts)
}

// hostnameList accepts a list whose entries are strings or objects carrying
// hostName. An object carrying a hostNames list is read as that list.
func hostnameList(r gjson.Result) ([]string, bool) {
	if r.IsObject() {
		r = r.Get("hostNames")
	}
	if !r.IsArray() {
		return nil, false
	}

	var hosts []string
	for _, entry := range r.Array() {
		switch {
		case entry.Type == gjson.String:
			hosts = append(hosts, entry.Str)
		case entry.IsObject():
			if name := entry.Get("hostName"); name.Type == gjson.String {
				hosts = append(hosts, name.Str)
			}
		}
	}
	return hosts, len(hosts) > 0
}

func formatHostnames(hosts []string) string {
	joined := strings.Join(hosts, hostnamesSeparator)
	if utf8.RuneCountInString(joined) <= hostnamesMaxLen {
		return joined
	}
	return string([]rune(joined)[:hostnamesKeepLen]) + hostnamesEllipsis
}
