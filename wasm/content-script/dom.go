//go:build js && wasm

package main

import (
	"strings"
	"syscall/js"

	"safeenter/internal/classify"
)

// jsElement adapts a live DOM node to classify.Element. Every accessor
// swallows js panics: host pages replace prototypes, proxy nodes, and
// otherwise misbehave, and a classification failure must read as "not a
// text surface", never as a crash.
type jsElement struct {
	v js.Value
}

const elementNode = 1

// elementOf wraps v if it is an element node, else returns nil.
func elementOf(v js.Value) classify.Element {
	if !v.Truthy() {
		return nil
	}
	defer func() { recover() }()
	if nt := v.Get("nodeType"); !nt.Truthy() || nt.Int() != elementNode {
		return nil
	}
	return &jsElement{v: v}
}

func (e *jsElement) TagName() (tag string) {
	defer func() { recover() }()
	t := e.v.Get("tagName")
	if t.Type() != js.TypeString {
		return ""
	}
	return strings.ToLower(t.String())
}

func (e *jsElement) Attr(name string) (val string, ok bool) {
	defer func() { recover() }()
	a := e.v.Call("getAttribute", name)
	if a.Type() != js.TypeString {
		return "", false
	}
	return a.String(), true
}

func (e *jsElement) IsContentEditable() (editable bool) {
	defer func() { recover() }()
	return e.v.Get("isContentEditable").Truthy()
}

func (e *jsElement) Matches(selector string) (matched bool) {
	defer func() { recover() }()
	return e.v.Call("matches", selector).Bool()
}

func (e *jsElement) HasDescendant(selector string) (found bool) {
	defer func() { recover() }()
	return e.v.Call("querySelector", selector).Truthy()
}

func (e *jsElement) Parent() classify.Element {
	defer func() { recover() }()
	return elementOf(e.v.Get("parentElement"))
}
