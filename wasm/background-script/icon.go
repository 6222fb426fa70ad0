//go:build js && wasm

package main

import (
	"syscall/js"
)

// Toolbar icon variants. The greyed set signals that gating is off for
// the active tab's domain.
var (
	iconEnabled = map[string]any{
		"16":  "icons/icon16.png",
		"48":  "icons/icon48.png",
		"128": "icons/icon128.png",
	}
	iconDisabled = map[string]any{
		"16":  "icons/icon16-disabled.png",
		"48":  "icons/icon48-disabled.png",
		"128": "icons/icon128-disabled.png",
	}
)

// watchTabs keeps the toolbar icon in sync with the active tab's domain
// state: it re-resolves whenever a tab finishes loading.
func (h *messageHandler) watchTabs() {
	onUpdated := h.chrome.Get("tabs").Get("onUpdated")
	if !onUpdated.Truthy() {
		h.log.Warn().Msg("tabs.onUpdated unavailable, icon state disabled")
		return
	}

	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		defer func() { recover() }()
		if len(args) < 3 {
			return nil
		}
		tabID, changeInfo, tab := args[0], args[1], args[2]
		if changeInfo.Get("status").String() != "complete" {
			return nil
		}
		host := tabHostname(tab)
		if host == "" {
			return nil
		}
		go h.updateIcon(tabID, host)
		return nil
	})
	onUpdated.Call("addListener", listener)
}

func (h *messageHandler) updateIcon(tabID js.Value, host string) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Debug().Any("panic", r).Msg("icon update failed")
		}
	}()

	enabled, err := h.store.CheckDomain(host)
	if err != nil {
		h.log.Debug().Err(err).Str("host", host).Msg("icon check failed")
		return
	}
	icon := iconDisabled
	if enabled {
		icon = iconEnabled
	}
	h.chrome.Get("action").Call("setIcon", map[string]any{
		"path":  icon,
		"tabId": tabID,
	})
}
