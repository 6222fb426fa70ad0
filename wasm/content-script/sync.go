//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/tidwall/gjson"

	"safeenter/internal/policy"
	"safeenter/internal/retry"
	"safeenter/internal/settings"
)

// loadSettings resolves the effective settings for this page, retrying
// with backoff before giving up. On exhaustion the fail-closed defaults
// stay active: gating disabled rather than mis-enforced.
func (c *runtimeClient) loadSettings() {
	p := c.p

	var loaded settings.Settings
	err := retry.Default().Do(context.Background(), func() error {
		s, err := c.fetchSettings()
		if err != nil {
			p.log.Warn().Err(err).Msg("settings fetch failed, will retry")
			return err
		}
		loaded = s
		return nil
	})
	if err != nil {
		p.log.Error().Err(err).Msg("settings unavailable, staying fail-closed")
		return
	}

	p.applySettings(loaded, "load")
}

// fetchSettings performs one getSettings + checkDomain round. A failed
// domain check falls back to local policy resolution instead of failing
// the whole load.
func (c *runtimeClient) fetchSettings() (settings.Settings, error) {
	raw, err := c.request("getSettings", nil)
	if err != nil {
		return settings.Settings{}, err
	}
	blob := gjson.Get(raw, "settings")
	if !blob.Exists() {
		return settings.Settings{}, fmt.Errorf("malformed getSettings response")
	}
	s := settings.Parse([]byte(blob.Raw))

	if c.p.hostname == "" {
		s.DomainEnabled = false
		return s, nil
	}
	check, err := c.request("checkDomain", map[string]any{"domain": c.p.hostname})
	if err == nil {
		if v := gjson.Get(check, "isEnabled"); v.Exists() {
			s.DomainEnabled = v.Bool()
			return s, nil
		}
	}
	s.DomainEnabled = policy.Resolve(c.p.hostname, s)
	return s, nil
}

// subscribeUpdates listens for settingsUpdated pushes. The merge keeps
// fields the payload does not carry, an explicit domainEnabled always
// wins over recomputation, and the press sequence resets before the next
// key event can be seen.
func (c *runtimeClient) subscribeUpdates() {
	if !c.chrome.Truthy() || !c.chrome.Get("runtime").Truthy() {
		c.p.log.Warn().Msg("chrome.runtime unavailable, live updates disabled")
		return
	}

	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		defer func() {
			if r := recover(); r != nil {
				c.p.log.Error().Any("panic", r).Msg("settings update handler failed")
			}
		}()
		if len(args) < 3 {
			return nil
		}
		message, sendResponse := args[0], args[2]
		if message.Get("action").String() != "settingsUpdated" {
			return nil
		}

		c.handleSettingsUpdated(message)

		// Acknowledge so the sender can confirm delivery.
		sendResponse.Invoke(map[string]any{
			"success":    true,
			"instanceId": c.p.id,
		})
		return nil
	})
	c.chrome.Get("runtime").Get("onMessage").Call("addListener", listener)
}

func (c *runtimeClient) handleSettingsUpdated(message js.Value) {
	p := c.p
	merged := settings.Merge(*p.cfg, []byte(stringify(message.Get("settings"))))

	switch {
	case message.Get("forceActivation").Truthy():
		merged.DomainEnabled = true
	case message.Get("domainEnabled").Type() == js.TypeBoolean:
		merged.DomainEnabled = message.Get("domainEnabled").Bool()
	default:
		merged.DomainEnabled = policy.Resolve(p.hostname, merged)
	}

	p.applySettings(merged, "update")
}

// applySettings swaps the live configuration and resets the press
// sequence atomically with respect to key events, which run on the same
// thread.
func (p *pageContext) applySettings(s settings.Settings, source string) {
	*p.cfg = s
	p.gate.ResetSequence()
	p.log.Info().
		Str("source", source).
		Bool("domainEnabled", s.DomainEnabled).
		Int("pressCount", s.PressCount).
		Int("delay", s.Delay).
		Str("mode", string(s.Mode)).
		Msg("settings applied")
}
