//go:build js && wasm

package main

import (
	"syscall/js"

	ilog "safeenter/internal/log"
)

func main() {
	chrome := js.Global().Get("chrome")
	log := ilog.With("background")
	log.Info().Msg("background store starting")

	store := newSettingsStore(chrome, ilog.With("store"))
	handler := newMessageHandler(store, chrome, ilog.With("messaging"))

	installHook(chrome, store)
	handler.listen()
	handler.watchTabs()

	select {}
}

// installHook seeds storage on first install and migrates persisted
// configuration on upgrades.
func installHook(chrome js.Value, store *settingsStore) {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		reason := args[0].Get("reason").String()
		go func() {
			defer func() {
				if r := recover(); r != nil {
					store.log.Error().Any("panic", r).Str("reason", reason).Msg("install hook failed")
				}
			}()
			switch reason {
			case "install":
				if err := store.SeedDefaults(); err != nil {
					store.log.Error().Err(err).Msg("seeding defaults failed")
					return
				}
				store.log.Info().Msg("defaults seeded")
			case "update":
				if err := store.Migrate(); err != nil {
					store.log.Error().Err(err).Msg("settings migration failed")
					return
				}
				store.log.Info().Msg("settings migrated")
			}
		}()
		return nil
	})
	chrome.Get("runtime").Get("onInstalled").Call("addListener", listener)
}
