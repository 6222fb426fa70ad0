//go:build js && wasm

package main

import (
	"net/url"
	"strings"
	"syscall/js"
	"time"

	"github.com/tidwall/sjson"

	"safeenter/internal/policy"
	"safeenter/internal/settings"
)

// broadcastSettingsUpdated pushes the saved settings to every open web
// tab. Each tab gets its own resolved domainEnabled so content scripts
// never have to recompute policy, and a timestamp so stale pushes can
// be discarded.
func (h *messageHandler) broadcastSettingsUpdated(s settings.Settings) {
	blob, err := persistedBlob(s)
	if err != nil {
		h.log.Error().Err(err).Msg("broadcast skipped, settings not serializable")
		return
	}
	overrides := h.store.DomainOverrides()
	now := time.Now().UnixMilli()

	var callback js.Func
	callback = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer callback.Release()
		defer func() {
			if r := recover(); r != nil {
				h.log.Warn().Any("panic", r).Msg("broadcast aborted")
			}
		}()
		if len(args) == 0 {
			return nil
		}
		tabs := args[0]
		n := tabs.Get("length").Int()
		sent := 0
		for i := 0; i < n; i++ {
			tab := tabs.Index(i)
			host := tabHostname(tab)
			if host == "" {
				continue
			}
			enabled := resolveForHost(host, s, overrides)

			msg, _ := sjson.Set(`{"action":"settingsUpdated"}`, "domainEnabled", enabled)
			msg, _ = sjson.SetRaw(msg, "settings", blob)
			msg, _ = sjson.Set(msg, "timestamp", now)

			h.sendToTab(tab.Get("id"), msg)
			sent++
		}
		h.log.Info().Int("tabs", sent).Msg("settings update broadcast")
		return nil
	})
	h.chrome.Get("tabs").Call("query", map[string]any{}, callback)
}

// sendToTab delivers one message and swallows the delivery error tabs
// without a content script always produce.
func (h *messageHandler) sendToTab(tabID js.Value, raw string) {
	defer func() { recover() }()
	obj, err := parseJSON(raw)
	if err != nil {
		return
	}
	var ack js.Func
	ack = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer ack.Release()
		// Reading lastError marks it handled; uninjected tabs are expected.
		h.chrome.Get("runtime").Get("lastError")
		return nil
	})
	h.chrome.Get("tabs").Call("sendMessage", tabID, obj, ack)
}

// tabHostname extracts the hostname from a tab's URL. Only http(s)
// pages can host the content script.
func tabHostname(tab js.Value) (host string) {
	defer func() {
		if recover() != nil {
			host = ""
		}
	}()
	rawURL := tab.Get("url")
	if rawURL.Type() != js.TypeString {
		return ""
	}
	u, err := url.Parse(rawURL.String())
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// resolveForHost applies the same precedence as checkDomain: explicit
// per-domain override first, then the whitelist/blacklist rules.
func resolveForHost(host string, s settings.Settings, overrides map[string]bool) bool {
	if enabled, ok := overrides[host]; ok {
		return enabled
	}
	return policy.Resolve(host, s)
}
