package core

import "strings"

// InfoType selects which facts record a lookup produces.
type InfoType string

const (
	InfoTypeDomain  InfoType = "domain"
	InfoTypeContact InfoType = "contact"
)

// ParseInfoType matches s case-insensitively against the known info types.
func ParseInfoType(s string) (InfoType, bool) {
	switch InfoType(strings.ToLower(strings.TrimSpace(s))) {
	case InfoTypeDomain:
		return InfoTypeDomain, true
	case InfoTypeContact:
		return InfoTypeContact, true
	}
	return "", false
}

// LookupRequest is a validated inbound lookup.
type LookupRequest struct {
	DomainName string
	InfoType   InfoType
}

// Record is implemented by every facts record a lookup can return.
type Record interface {
	InfoType() InfoType
}

type DomainFacts struct {
	DomainName              string     `json:"domain_name"`
	Registrar               string     `json:"registrar"`
	RegistrationDate        *Timestamp `json:"registration_date"`
	ExpirationDate          *Timestamp `json:"expiration_date"`
	EstimatedDomainAgeYears *int       `json:"estimated_domain_age"`
	HostnamesDisplay        string     `json:"hostnames"`
}

func (DomainFacts) InfoType() InfoType { return InfoTypeDomain }

type ContactFacts struct {
	RegistrantName            string `json:"registrant_name"`
	TechnicalContactName      string `json:"technical_contact_name"`
	AdministrativeContactName string `json:"administrative_contact_name"`
	ContactEmail              string `json:"contact_email"`
}

func (ContactFacts) InfoType() InfoType { return InfoTypeContact }
