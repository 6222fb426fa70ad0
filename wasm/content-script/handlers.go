//go:build js && wasm

package main

import (
	"syscall/js"
	"time"

	"safeenter/internal/classify"
	"safeenter/internal/gate"
)

// installKeyListeners hooks the document in capture phase. Shadow roots
// and iframe documents get the same handlers through the coverage
// manager; the handlers themselves are shared js.Funcs.
func (p *pageContext) installKeyListeners() {
	p.coverage.keydown = js.FuncOf(p.handleKeyDown)
	p.coverage.submit = js.FuncOf(p.handleSubmit)
	document.Call("addEventListener", "keydown", p.coverage.keydown, true)
}

// handleKeyDown is the submission gate entry point. Any panic inside
// degrades to native behavior: a broken page is worse than one
// accidental submission.
func (p *pageContext) handleKeyDown(this js.Value, args []js.Value) any {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Any("panic", r).Msg("keydown handler failed, allowing native behavior")
		}
	}()
	if len(args) == 0 {
		return nil
	}
	ev := args[0]
	if ev.Get("key").String() != "Enter" {
		return nil
	}

	k := gate.KeyPress{
		Enter:  true,
		Shift:  ev.Get("shiftKey").Truthy(),
		Ctrl:   ev.Get("ctrlKey").Truthy(),
		Alt:    ev.Get("altKey").Truthy(),
		Meta:   ev.Get("metaKey").Truthy(),
		Repeat: ev.Get("repeat").Truthy(),
	}

	target := ev.Get("target")
	res := classify.Classify(elementOf(target), p.hostname, p.sites)

	d := p.gate.HandleKey(k, res.IsTextSurface(), time.Now())
	p.apply(d, ev, target, res)
	return nil
}

// handleSubmit guards native form submit events in capture phase. It
// covers submissions that bypassed the keydown path, like button clicks
// and programmatic requestSubmit calls.
func (p *pageContext) handleSubmit(this js.Value, args []js.Value) any {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Any("panic", r).Msg("submit guard failed, allowing native behavior")
		}
	}()
	if len(args) == 0 {
		return nil
	}
	ev := args[0]

	d := p.gate.HandleSubmit(time.Now())
	if d.Action == gate.ActionSuppress {
		ev.Call("preventDefault")
		ev.Call("stopPropagation")
		p.log.Debug().Int("count", p.gate.Count()).Msg("blocked form submit below threshold")
	}
	if d.Feedback != nil {
		p.emitFeedback(*d.Feedback)
	}
	return nil
}

func (p *pageContext) apply(d gate.Decision, ev, target js.Value, res classify.Result) {
	switch d.Action {
	case gate.ActionSuppress:
		ev.Call("preventDefault")
		ev.Call("stopPropagation")
		if d.InsertBreak {
			p.insertLineBreak(target, res)
		}
	case gate.ActionAllowSubmit:
		p.log.Debug().Msg("press threshold reached, allowing native submit")
	}
	if d.Feedback != nil {
		p.emitFeedback(*d.Feedback)
	}
	if d.ReportUsage {
		go p.client.incrementUsage()
	}
}
