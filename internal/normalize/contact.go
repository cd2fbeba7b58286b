package normalize

// Role names a contact block in an upstream record.
type Role string

const (
	RoleRegistrant     Role = "registrant"
	RoleTechnical      Role = "technical"
	RoleAdministrative Role = "administrative"
)

// ContactSource tells which step of the fallback chain supplied a contact.
type ContactSource int

const (
	SourceNone ContactSource = iota
	SourceRegistryData
	SourceRecord
	SourceGenericRegistrant
)

func (s ContactSource) String() string {
	switch s {
	case SourceRegistryData:
		return "registry_data"
	case SourceRecord:
		return "record"
	case SourceGenericRegistrant:
		return "generic_registrant"
	}
	return "none"
}

// Contact is the part of a contact block the relay exposes.
type Contact struct {
	Name   string
	Source ContactSource
}

// ResolveContact picks the first non-empty block of registryData.<role>Contact,
// <role>Contact and registrant. The registrant block is used for every role
// when nothing role-specific exists.
func ResolveContact(doc Document, role Role) Contact {
	key := string(role) + "Contact"

	type block struct {
		source ContactSource
		name   string
	}
	lookup := func(source ContactSource, keys ...string) func(Document) (block, bool) {
		return func(d Document) (block, bool) {
			obj, ok := d.Object(keys...)
			if !ok {
				return block{}, false
			}
			name, _ := stringValue(obj.Get("name"))
			return block{source: source, name: name}, true
		}
	}

	b, ok := firstOf(doc,
		lookup(SourceRegistryData, "registryData", key),
		lookup(SourceRecord, key),
		lookup(SourceGenericRegistrant, "registrant"),
	)
	if !ok {
		return Contact{Source: SourceNone}
	}
	return Contact{Name: b.name, Source: b.source}
}

// ResolveContactEmail prefers registryData.contactEmail over contactEmail.
func ResolveContactEmail(doc Document) string {
	email, _ := firstOf(doc,
		func(d Document) (string, bool) { return d.String("registryData", "contactEmail") },
		func(d Document) (string, bool) { return d.String("contactEmail") },
	)
	return email
}
