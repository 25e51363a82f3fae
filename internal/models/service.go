package models

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Placeholder text shown on cards when optional fields are missing
const (
	NoFormatLabel      = "N/A"
	DefaultProcessTime = "Varies by data volume"
	DefaultNotes       = "No specific notes available."
	NoLinkLabel        = "No direct link available"
)

// Service represents one catalog entry: a service and how to export your data from it.
// Empty strings and nil slices mean the field was absent in the source payload.
type Service struct {
	Name             string   `json:"name"`
	Formats          []string `json:"formats,omitempty"`
	DeletionRequired bool     `json:"deletionRequired"`
	ProcessTime      string   `json:"processTime,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	ExportLink       string   `json:"exportLink,omitempty"`
	LastVerifiedDate string   `json:"lastVerifiedDate,omitempty"`
}

// HasFormats reports whether the service declares at least one format
func (s Service) HasFormats() bool {
	for _, f := range s.Formats {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}

// DisplayFormats returns the upper-cased format tags, or a single "N/A" tag
func (s Service) DisplayFormats() []string {
	if !s.HasFormats() {
		return []string{NoFormatLabel}
	}
	tags := make([]string, 0, len(s.Formats))
	for _, f := range s.Formats {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		tags = append(tags, strings.ToUpper(f))
	}
	return tags
}

// DisplayProcessTime returns the process time or the default wording
func (s Service) DisplayProcessTime() string {
	if strings.TrimSpace(s.ProcessTime) == "" {
		return DefaultProcessTime
	}
	return s.ProcessTime
}

// DisplayNotes returns the notes or the default wording
func (s Service) DisplayNotes() string {
	if strings.TrimSpace(s.Notes) == "" {
		return DefaultNotes
	}
	return s.Notes
}

// DeletionLabel returns "Yes" when account deletion is required to export
func (s Service) DeletionLabel() string {
	if s.DeletionRequired {
		return "Yes"
	}
	return "No"
}

// LinkHost returns the registrable domain of the export link.
// Examples:
//   - "https://takeout.google.com/settings" -> "google.com"
//   - "https://www.bbc.co.uk/account" -> "bbc.co.uk"
//
// Returns "" when there is no link or it cannot be parsed.
func (s Service) LinkHost() string {
	link := strings.TrimSpace(s.ExportLink)
	if link == "" {
		return ""
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(parsed.Hostname(), ".")
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// localhost and similar have no public suffix
		return host
	}
	return root
}
