//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"
)

// messageHandler owns the chrome.runtime.onMessage surface. Every
// request is a JSON object with an "action" discriminator; responses go
// back through sendResponse.
type messageHandler struct {
	store  *settingsStore
	chrome js.Value
	log    zerolog.Logger
}

func newMessageHandler(store *settingsStore, chrome js.Value, log zerolog.Logger) *messageHandler {
	return &messageHandler{store: store, chrome: chrome, log: log}
}

// listen registers the onMessage dispatcher. Handlers block on storage,
// so each runs in its own goroutine and the listener returns true to
// keep the sendResponse channel open.
func (h *messageHandler) listen() {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 3 {
			return false
		}
		message, sendResponse := args[0], args[2]
		action := message.Get("action").String()

		switch action {
		case "getSettings":
			go h.handleGetSettings(sendResponse)
		case "saveSettings":
			go h.handleSaveSettings(message, sendResponse)
		case "checkDomain":
			go h.handleCheckDomain(message, sendResponse)
		case "incrementUsage":
			go h.handleIncrementUsage(sendResponse)
		case "setPremium":
			go h.handleSetPremium(message, sendResponse)
		default:
			h.log.Debug().Str("action", action).Msg("unknown action")
			return false
		}
		return true
	})
	h.chrome.Get("runtime").Get("onMessage").Call("addListener", listener)
}

func (h *messageHandler) handleGetSettings(sendResponse js.Value) {
	defer h.recoverHandler("getSettings", sendResponse)

	cfg, err := h.store.Settings()
	if err != nil {
		h.log.Warn().Err(err).Msg("getSettings served defaults")
	}
	blob, err := persistedBlob(cfg)
	if err != nil {
		h.respondError(sendResponse, err)
		return
	}
	out, _ := sjson.SetRaw("{}", "settings", blob)
	out, _ = sjson.Set(out, "settings.isPremium", cfg.IsPremium)
	h.respond(sendResponse, out)
}

func (h *messageHandler) handleSaveSettings(message, sendResponse js.Value) {
	defer h.recoverHandler("saveSettings", sendResponse)

	patch := stringify(message.Get("settings"))
	merged, err := h.store.SaveSettings([]byte(patch))
	if err != nil {
		h.respondError(sendResponse, err)
		return
	}
	h.respond(sendResponse, `{"success":true}`)
	h.broadcastSettingsUpdated(merged)
}

func (h *messageHandler) handleCheckDomain(message, sendResponse js.Value) {
	defer h.recoverHandler("checkDomain", sendResponse)

	domain := message.Get("domain").String()
	enabled, err := h.store.CheckDomain(domain)
	if err != nil {
		h.respondError(sendResponse, err)
		return
	}
	out, _ := sjson.Set("{}", "isEnabled", enabled)
	h.respond(sendResponse, out)
}

func (h *messageHandler) handleIncrementUsage(sendResponse js.Value) {
	defer h.recoverHandler("incrementUsage", sendResponse)

	count, premium, err := h.store.IncrementUsage()
	if err != nil {
		h.respondError(sendResponse, err)
		return
	}
	out, _ := sjson.Set("{}", "usageData.count", count)
	out, _ = sjson.Set(out, "usageData.isPremium", premium)
	h.respond(sendResponse, out)
}

func (h *messageHandler) handleSetPremium(message, sendResponse js.Value) {
	defer h.recoverHandler("setPremium", sendResponse)

	if err := h.store.SetPremium(message.Get("isPremium").Truthy()); err != nil {
		h.respondError(sendResponse, err)
		return
	}
	h.respond(sendResponse, `{"success":true}`)
}

// respond parses a JSON reply and invokes sendResponse with it. The
// sender may be gone by now; a dead port is not an error worth more
// than a debug line.
func (h *messageHandler) respond(sendResponse js.Value, raw string) {
	defer func() {
		if recover() != nil {
			h.log.Debug().Msg("response dropped, sender gone")
		}
	}()
	obj, err := parseJSON(raw)
	if err != nil {
		h.log.Error().Err(err).Str("raw", raw).Msg("malformed response payload")
		return
	}
	sendResponse.Invoke(obj)
}

func (h *messageHandler) respondError(sendResponse js.Value, err error) {
	out, _ := sjson.Set("{}", "error", err.Error())
	h.respond(sendResponse, out)
}

func (h *messageHandler) recoverHandler(action string, sendResponse js.Value) {
	if r := recover(); r != nil {
		h.log.Error().Any("panic", r).Str("action", action).Msg("handler failed")
		h.respond(sendResponse, `{"error":"internal error"}`)
	}
}
