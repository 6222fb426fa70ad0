//go:build js && wasm

package main

import (
	"syscall/js"

	"safeenter/internal/classify"
	"safeenter/internal/textedit"
)

// insertLineBreak puts a single line break at the caret of the classified
// target. Failures are logged and swallowed: the key event was already
// suppressed, and "no break appeared" is safer than an accidental submit.
func (p *pageContext) insertLineBreak(target js.Value, res classify.Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn().Any("panic", r).Msg("line break insertion failed")
		}
	}()

	switch res.Kind {
	case classify.KindInput, classify.KindTextarea:
		p.spliceValue(target)
	case classify.KindContentEditable, classify.KindAriaTextbox:
		p.insertEditableBreak(target)
	case classify.KindSiteSpecific:
		node := findSiteEditable(target, res.Selector)
		if !node.Truthy() {
			p.log.Debug().Str("selector", res.Selector).Msg("site editor node not found")
			return
		}
		p.insertEditableBreak(node)
	}
}

// spliceValue rewrites an input/textarea value around the selection and
// fires a synthetic input event so reactive frameworks re-render.
func (p *pageContext) spliceValue(el js.Value) {
	value := el.Get("value").String()
	start := selectionOffset(el, "selectionStart", len(value))
	end := selectionOffset(el, "selectionEnd", start)

	next, caret := textedit.InsertBreak(value, start, end)
	el.Set("value", next)
	el.Call("setSelectionRange", caret, caret)
	dispatchInput(el)
}

func selectionOffset(el js.Value, prop string, fallback int) int {
	v := el.Get(prop)
	if v.Type() != js.TypeNumber {
		return fallback
	}
	return v.Int()
}

// insertEditableBreak uses the platform command when it works and falls
// back to manual range surgery when it does not.
func (p *pageContext) insertEditableBreak(el js.Value) {
	focusQuiet(el)
	if ok := execInsertLineBreak(); ok {
		dispatchInput(el)
		return
	}

	sel := window.Call("getSelection")
	if !sel.Truthy() || sel.Get("rangeCount").Int() == 0 {
		return
	}
	rng := sel.Call("getRangeAt", 0)
	rng.Call("deleteContents")
	br := document.Call("createElement", "br")
	rng.Call("insertNode", br)
	rng.Call("setStartAfter", br)
	rng.Call("collapse", true)
	sel.Call("removeAllRanges")
	sel.Call("addRange", rng)
	dispatchInput(el)
}

func execInsertLineBreak() (ok bool) {
	defer func() { recover() }()
	return document.Call("execCommand", "insertLineBreak").Bool()
}

func focusQuiet(el js.Value) {
	defer func() { recover() }()
	el.Call("focus", map[string]any{"preventScroll": true})
}

// findSiteEditable resolves the site's real editable node, which can sit
// above or below the event target.
func findSiteEditable(target js.Value, selector string) (node js.Value) {
	defer func() {
		if recover() != nil {
			node = js.Undefined()
		}
	}()
	if target.Truthy() {
		if n := target.Call("closest", selector); n.Truthy() {
			return n
		}
		if n := target.Call("querySelector", selector); n.Truthy() {
			return n
		}
	}
	return document.Call("querySelector", selector)
}

func dispatchInput(el js.Value) {
	defer func() { recover() }()
	ctor := js.Global().Get("InputEvent")
	var evt js.Value
	if ctor.Truthy() {
		evt = ctor.New("input", map[string]any{"bubbles": true, "inputType": "insertLineBreak"})
	} else {
		evt = js.Global().Get("Event").New("input", map[string]any{"bubbles": true})
	}
	el.Call("dispatchEvent", evt)
}
