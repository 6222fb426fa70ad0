// Package settings holds the extension settings model shared by the
// content script and the background store. The persisted blob is JSON;
// partial updates arriving over runtime messages are merged key by key so
// fields owned by other writers are never clobbered.
package settings

import (
	"time"

	"github.com/tidwall/gjson"
)

// Mode selects how Enter presses are gated.
type Mode string

const (
	// ModeNormal requires PressCount presses inside the window before a
	// submission is allowed through.
	ModeNormal Mode = "normal"
	// ModeAlwaysLineBreak never lets Enter submit; every press becomes a
	// line break and submission happens via another control.
	ModeAlwaysLineBreak Mode = "alwaysLineBreak"
)

// ListMode selects how the configured domain lists are interpreted.
type ListMode string

const (
	ListWhitelist ListMode = "whitelist"
	ListBlacklist ListMode = "blacklist"
)

// DomainRules is the optional whitelist/blacklist configuration.
type DomainRules struct {
	Mode      ListMode `json:"mode"`
	Whitelist []string `json:"whitelist"`
	Blacklist []string `json:"blacklist"`
}

// Settings is the effective configuration for one page.
//
// DomainEnabled is the resolved, page-specific flag: it already combines
// Enabled with domain-list membership and is what the gate consults.
type Settings struct {
	Enabled       bool         `json:"enabled"`
	DomainEnabled bool         `json:"domainEnabled"`
	PressCount    int          `json:"pressCount"`
	Delay         int          `json:"delay"` // ms between presses
	ShowFeedback  bool         `json:"showFeedback"`
	Mode          Mode         `json:"mode"`
	IsPremium     bool         `json:"isPremium"`
	Domains       *DomainRules `json:"domains,omitempty"`
}

const (
	DefaultPressCount = 3
	DefaultDelayMS    = 600
)

// Default returns the fail-closed settings used until the store answers:
// gating disabled rather than mis-enforced.
func Default() Settings {
	return Settings{
		Enabled:       true,
		DomainEnabled: false,
		PressCount:    DefaultPressCount,
		Delay:         DefaultDelayMS,
		ShowFeedback:  true,
		Mode:          ModeNormal,
	}
}

// Window returns the press window as a duration.
func (s Settings) Window() time.Duration {
	return time.Duration(s.Delay) * time.Millisecond
}

// Normalize fills invalid or missing fields with documented defaults
// instead of rejecting the blob.
func Normalize(s *Settings) {
	if s.PressCount < 1 {
		s.PressCount = DefaultPressCount
	}
	if s.Delay <= 0 {
		s.Delay = DefaultDelayMS
	}
	if s.Mode != ModeNormal && s.Mode != ModeAlwaysLineBreak {
		s.Mode = ModeNormal
	}
	if s.Domains != nil {
		switch s.Domains.Mode {
		case ListWhitelist, ListBlacklist:
		default:
			s.Domains = nil
		}
	}
}

// Merge applies a full or partial JSON settings payload onto cur. Only keys
// present in the payload are touched. Historical alias keys are honored:
// timeWindow for delay and visualFeedback for showFeedback. The result is
// normalized.
func Merge(cur Settings, payload []byte) Settings {
	out := cur
	if !gjson.ValidBytes(payload) {
		Normalize(&out)
		return out
	}
	doc := gjson.ParseBytes(payload)

	if v := doc.Get("enabled"); v.Exists() {
		out.Enabled = v.Bool()
	}
	if v := doc.Get("domainEnabled"); v.Exists() {
		out.DomainEnabled = v.Bool()
	}
	if v := doc.Get("pressCount"); v.Exists() {
		out.PressCount = int(v.Int())
	}
	if v := doc.Get("delay"); v.Exists() {
		out.Delay = int(v.Int())
	} else if v := doc.Get("timeWindow"); v.Exists() {
		out.Delay = int(v.Int())
	}
	if v := doc.Get("showFeedback"); v.Exists() {
		out.ShowFeedback = v.Bool()
	} else if v := doc.Get("visualFeedback"); v.Exists() {
		out.ShowFeedback = v.Bool()
	}
	if v := doc.Get("mode"); v.Exists() {
		out.Mode = Mode(v.String())
	}
	if v := doc.Get("isPremium"); v.Exists() {
		out.IsPremium = v.Bool()
	}
	if v := doc.Get("domains"); v.Exists() && v.IsObject() {
		rules := &DomainRules{Mode: ListMode(v.Get("mode").String())}
		for _, d := range v.Get("whitelist").Array() {
			rules.Whitelist = append(rules.Whitelist, d.String())
		}
		for _, d := range v.Get("blacklist").Array() {
			rules.Blacklist = append(rules.Blacklist, d.String())
		}
		out.Domains = rules
	}

	Normalize(&out)
	return out
}

// Parse decodes a complete settings payload, falling back to defaults for
// anything absent or malformed.
func Parse(payload []byte) Settings {
	return Merge(Default(), payload)
}
