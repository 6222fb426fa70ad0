//go:build js && wasm

package main

import (
	"syscall/js"
	"time"

	"github.com/bep/debounce"
)

const (
	// formMark flags forms that already carry the submit guard so
	// rescans never double-attach, which would double-count presses.
	formMark = "data-safe-enter-form"
	// rootMark is a property set on documents and shadow roots that
	// already carry the keydown listener.
	rootMark = "_safeEnterHooked"
	// maxTraversalDepth bounds nesting of shadow roots and iframes;
	// host pages are untrusted and can nest pathologically.
	maxTraversalDepth = 8
	// rescanDelay batches mutation-driven rescans on churning pages.
	rescanDelay = 250 * time.Millisecond
)

// coverageManager keeps the gate attached to every reachable root: the
// main document, open shadow roots at any depth, and same-origin iframes.
// Coverage survives SPA-style rewrites through a debounced
// MutationObserver rescan.
type coverageManager struct {
	p        *pageContext
	keydown  js.Func
	submit   js.Func
	observer js.Value
}

func newCoverageManager(p *pageContext) *coverageManager {
	return &coverageManager{p: p}
}

func (c *coverageManager) start() {
	c.scan()
	c.observeMutations()
}

// scan walks the page as a bounded breadth-first traversal over an
// explicit worklist. Every attachment point is marked, so running it
// again is free.
func (c *coverageManager) scan() {
	defer func() {
		if r := recover(); r != nil {
			c.p.log.Warn().Any("panic", r).Msg("coverage scan aborted")
		}
	}()

	type workItem struct {
		root  js.Value
		depth int
	}
	work := []workItem{{root: document, depth: 0}}
	forms, roots := 0, 0

	for len(work) > 0 {
		item := work[0]
		work = work[1:]
		if item.depth > maxTraversalDepth {
			continue
		}

		if c.hookRoot(item.root) {
			roots++
		}
		forms += c.hookForms(item.root)

		for _, sub := range c.collectSubRoots(item.root) {
			work = append(work, workItem{root: sub, depth: item.depth + 1})
		}
	}

	if forms > 0 || roots > 0 {
		c.p.log.Debug().Int("forms", forms).Int("roots", roots).Msg("coverage extended")
	}
}

// hookRoot attaches the capture-phase keydown handler once per root.
func (c *coverageManager) hookRoot(root js.Value) (attached bool) {
	defer func() { recover() }()
	if root.Get(rootMark).Truthy() {
		return false
	}
	root.Set(rootMark, true)
	if !root.Equal(document) {
		root.Call("addEventListener", "keydown", c.keydown, true)
	}
	return true
}

// hookForms adds the submit guard to unprocessed forms under root.
func (c *coverageManager) hookForms(root js.Value) (count int) {
	defer func() { recover() }()
	forms := root.Call("querySelectorAll", "form:not(["+formMark+"])")
	n := forms.Get("length").Int()
	for i := 0; i < n; i++ {
		form := forms.Index(i)
		form.Call("setAttribute", formMark, "true")
		form.Call("addEventListener", "submit", c.submit, true)
		count++
	}
	return count
}

// collectSubRoots finds shadow roots and same-origin iframe documents
// beneath root. Cross-origin frames raise security errors; those are
// swallowed and the frame skipped.
func (c *coverageManager) collectSubRoots(root js.Value) (subs []js.Value) {
	defer func() { recover() }()

	all := root.Call("querySelectorAll", "*")
	n := all.Get("length").Int()
	for i := 0; i < n; i++ {
		if sr := shadowRootOf(all.Index(i)); sr.Truthy() {
			subs = append(subs, sr)
		}
	}

	frames := root.Call("querySelectorAll", "iframe")
	n = frames.Get("length").Int()
	for i := 0; i < n; i++ {
		if doc := frameDocumentOf(frames.Index(i)); doc.Truthy() {
			subs = append(subs, doc)
		}
	}
	return subs
}

func shadowRootOf(el js.Value) (sr js.Value) {
	defer func() {
		if recover() != nil {
			sr = js.Undefined()
		}
	}()
	return el.Get("shadowRoot")
}

func frameDocumentOf(frame js.Value) (doc js.Value) {
	defer func() {
		if recover() != nil {
			doc = js.Undefined()
		}
	}()
	return frame.Get("contentDocument")
}

// observeMutations triggers debounced rescans on subtree insertions.
func (c *coverageManager) observeMutations() {
	defer func() {
		if r := recover(); r != nil {
			c.p.log.Warn().Any("panic", r).Msg("mutation observer setup failed")
		}
	}()

	rescan := debounce.New(rescanDelay)
	callback := js.FuncOf(func(this js.Value, args []js.Value) any {
		rescan(func() { c.scan() })
		return nil
	})

	c.observer = js.Global().Get("MutationObserver").New(callback)
	c.observer.Call("observe", document.Get("documentElement"), map[string]any{
		"childList": true,
		"subtree":   true,
	})
}
