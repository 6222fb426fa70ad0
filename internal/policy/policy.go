// Package policy resolves whether gating is active for a hostname.
package policy

import (
	"strings"

	"safeenter/internal/settings"
)

// Resolve combines the global enabled flag with domain-list membership.
// An empty hostname resolves to false. Without domain rules the global
// flag is returned unchanged.
func Resolve(hostname string, s settings.Settings) bool {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return false
	}
	if s.Domains == nil {
		return s.Enabled
	}
	switch s.Domains.Mode {
	case settings.ListWhitelist:
		return s.Enabled && containsDomain(s.Domains.Whitelist, hostname)
	case settings.ListBlacklist:
		return s.Enabled && !containsDomain(s.Domains.Blacklist, hostname)
	default:
		return s.Enabled
	}
}

// MatchesDomain reports whether hostname falls under domain. The rule is
// suffix matching: the hostname equals the domain or ends with "." plus
// the domain, so "sub.example.com" matches "example.com" while
// "notexample.com" does not.
func MatchesDomain(hostname, domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	if hostname == domain {
		return true
	}
	return strings.HasSuffix(hostname, "."+domain)
}

func containsDomain(list []string, hostname string) bool {
	for _, d := range list {
		if MatchesDomain(hostname, d) {
			return true
		}
	}
	return false
}
