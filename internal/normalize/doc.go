// Package normalize maps raw upstream WHOIS records onto the relay's flat
// facts records.
//
// Registries disagree on where fields live. Each field is resolved through an
// ordered chain of candidate locations and the first usable value wins:
//
//	createdDate / expiresDate   record, registryData, registryData.registry
//	nameServers                 record, registryData
//	<role>Contact               registryData, record, registrant (any role)
//	contactEmail                registryData, record
//
// Nothing in this package returns an error. Absent or malformed values come
// back as absent (nil) or empty.
package normalize
