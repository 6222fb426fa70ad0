//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"safeenter/internal/policy"
	"safeenter/internal/settings"
)

// Storage layout in chrome.storage.sync:
//
//	settings   — the shared configuration object (no per-page fields)
//	domains    — explicit per-hostname enable overrides set from the popup
//	isPremium  — premium flag, kept outside settings so a settings save
//	             cannot clear it
//	usageCount — free-tier activation counter
const (
	syncArea = "sync"

	keySettings   = "settings"
	keyDomains    = "domains"
	keyPremium    = "isPremium"
	keyUsageCount = "usageCount"
)

// settingsStore is the single owner of persisted configuration. Every
// message handler and the install hook go through it.
type settingsStore struct {
	chrome js.Value
	log    zerolog.Logger
}

func newSettingsStore(chrome js.Value, log zerolog.Logger) *settingsStore {
	return &settingsStore{chrome: chrome, log: log}
}

// Settings loads the persisted configuration, normalized and with the
// premium flag folded in. Missing or corrupt storage yields defaults.
func (s *settingsStore) Settings() (settings.Settings, error) {
	raw, err := s.storageGet(syncArea, keySettings, keyPremium)
	if err != nil {
		return settings.Default(), err
	}
	cfg := settings.Default()
	if blob := gjson.Get(raw, keySettings); blob.Exists() {
		cfg = settings.Parse([]byte(blob.Raw))
	}
	cfg.IsPremium = gjson.Get(raw, keyPremium).Bool()
	return cfg, nil
}

// SaveSettings merges a partial payload over the stored configuration
// and persists the result. Returns the merged settings for broadcast.
func (s *settingsStore) SaveSettings(patch []byte) (settings.Settings, error) {
	cur, err := s.Settings()
	if err != nil {
		s.log.Warn().Err(err).Msg("loading settings before save failed, merging over defaults")
	}
	merged := settings.Merge(cur, patch)

	blob, err := persistedBlob(merged)
	if err != nil {
		return merged, err
	}
	payload, _ := sjson.SetRaw("{}", keySettings, blob)
	payload, _ = sjson.Set(payload, keyPremium, merged.IsPremium)
	return merged, s.storageSet(syncArea, payload)
}

// CheckDomain resolves whether gating applies on a hostname. An explicit
// per-domain override wins over the whitelist/blacklist rules.
func (s *settingsStore) CheckDomain(hostname string) (bool, error) {
	cfg, err := s.Settings()
	if err != nil {
		return false, err
	}
	if override, ok, err := s.domainOverride(hostname); err == nil && ok {
		return override, nil
	}
	return policy.Resolve(hostname, cfg), nil
}

// domainOverride looks up an explicit per-hostname entry. Hostnames
// contain dots, so the map is read whole instead of by gjson path.
func (s *settingsStore) domainOverride(hostname string) (enabled, found bool, err error) {
	raw, err := s.storageGet(syncArea, keyDomains)
	if err != nil {
		return false, false, err
	}
	v, ok := gjson.Get(raw, keyDomains).Map()[hostname]
	if !ok {
		return false, false, nil
	}
	return v.Bool(), true, nil
}

// DomainOverrides returns the full per-hostname override map for
// broadcast-time resolution.
func (s *settingsStore) DomainOverrides() map[string]bool {
	raw, err := s.storageGet(syncArea, keyDomains)
	if err != nil {
		s.log.Warn().Err(err).Msg("domain overrides unavailable")
		return nil
	}
	entries := gjson.Get(raw, keyDomains).Map()
	out := make(map[string]bool, len(entries))
	for host, v := range entries {
		out[host] = v.Bool()
	}
	return out
}

// IncrementUsage bumps the free-tier activation counter. Premium
// installs are not metered.
func (s *settingsStore) IncrementUsage() (count int, premium bool, err error) {
	cfg, err := s.Settings()
	if err != nil {
		return 0, false, err
	}
	if cfg.IsPremium {
		return 0, true, nil
	}

	raw, err := s.storageGet(syncArea, keyUsageCount)
	if err != nil {
		return 0, false, err
	}
	count = int(gjson.Get(raw, keyUsageCount).Int()) + 1

	payload, _ := sjson.Set("{}", keyUsageCount, count)
	return count, false, s.storageSet(syncArea, payload)
}

// SetPremium flips the premium flag.
func (s *settingsStore) SetPremium(premium bool) error {
	payload, _ := sjson.Set("{}", keyPremium, premium)
	return s.storageSet(syncArea, payload)
}

// SeedDefaults writes the initial storage state on first install.
func (s *settingsStore) SeedDefaults() error {
	blob, err := persistedBlob(settings.Default())
	if err != nil {
		return err
	}
	payload, _ := sjson.SetRaw("{}", keySettings, blob)
	payload, _ = sjson.SetRaw(payload, keyDomains, "{}")
	payload, _ = sjson.Set(payload, keyPremium, false)
	payload, _ = sjson.Set(payload, keyUsageCount, 0)
	return s.storageSet(syncArea, payload)
}

// Migrate rewrites configuration persisted by older versions. Running
// the stored object through the merge path renames legacy fields
// (timeWindow, visualFeedback) and drops unknown ones; absent storage
// is treated as a fresh install.
func (s *settingsStore) Migrate() error {
	raw, err := s.storageGet(syncArea, keySettings)
	if err != nil {
		return err
	}
	blob := gjson.Get(raw, keySettings)
	if !blob.Exists() {
		return s.SeedDefaults()
	}
	_, err = s.SaveSettings([]byte(blob.Raw))
	return err
}

// persistedBlob renders settings for storage. Per-page state never
// persists: domainEnabled is resolved per tab, isPremium lives under
// its own key.
func persistedBlob(s settings.Settings) (string, error) {
	settings.Normalize(&s)
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	out, err := sjson.Delete(string(raw), "domainEnabled")
	if err != nil {
		return "", err
	}
	return sjson.Delete(out, "isPremium")
}
