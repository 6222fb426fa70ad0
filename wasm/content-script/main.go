//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"safeenter/internal/classify"
	"safeenter/internal/gate"
	ilog "safeenter/internal/log"
	"safeenter/internal/settings"
)

// Global handles into the page. Set once at startup, read-only afterwards.
var (
	document js.Value
	window   js.Value
)

// pageContext is the per-page instance of the gate: one per frame the
// content script is injected into. Settings are mutated only by the sync
// client and the tracker only by the gate, both on the main thread.
type pageContext struct {
	id       string
	hostname string
	cfg      *settings.Settings
	gate     *gate.Gate
	sites    classify.Table
	client   *runtimeClient
	coverage *coverageManager
	log      zerolog.Logger
}

func newPageContext() *pageContext {
	cfg := settings.Default()
	hostname := ""
	if loc := window.Get("location"); loc.Truthy() {
		hostname = loc.Get("hostname").String()
	}
	p := &pageContext{
		id:       uuid.NewString(),
		hostname: hostname,
		cfg:      &cfg,
		sites:    classify.DefaultSites(),
	}
	p.gate = gate.New(p.cfg)
	p.log = ilog.With("content").With().
		Str("page", p.id).
		Str("host", hostname).
		Logger()
	p.client = newRuntimeClient(p)
	p.coverage = newCoverageManager(p)
	return p
}

func main() {
	document = js.Global().Get("document")
	window = js.Global().Get("window")

	p := newPageContext()
	p.log.Info().Msg("content script starting")

	// Listeners go up before the settings round-trip so no keystroke is
	// dropped during startup; until real settings arrive the fail-closed
	// defaults keep every Enter untouched.
	p.installKeyListeners()
	p.bootstrapCoverage()
	p.client.subscribeUpdates()

	go p.client.loadSettings()

	select {}
}

// bootstrapCoverage starts form/shadow/iframe coverage once the DOM is
// ready, mirroring the readyState dance the page forces on us.
func (p *pageContext) bootstrapCoverage() {
	if document.Get("readyState").String() == "loading" {
		var once js.Func
		once = js.FuncOf(func(this js.Value, args []js.Value) any {
			p.coverage.start()
			once.Release()
			return nil
		})
		document.Call("addEventListener", "DOMContentLoaded", once)
		return
	}
	p.coverage.start()
}
