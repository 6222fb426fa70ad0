// Package classify decides whether a DOM event target is a text-entry
// surface. It works against a narrow Element interface instead of
// syscall/js values so the decision table runs under plain go test; the
// content script provides the live adapter.
package classify

import "strings"

// Kind is the closed set of recognized text surfaces.
type Kind int

const (
	KindNone Kind = iota
	KindInput
	KindTextarea
	KindContentEditable
	KindAriaTextbox
	KindSiteSpecific
)

// Result is the classification outcome. Selector is set for
// KindSiteSpecific and points at the site's actual editable node, which
// may differ from the event target.
type Result struct {
	Kind     Kind
	Selector string
}

// IsTextSurface reports whether the target accepts typed text.
func (r Result) IsTextSurface() bool { return r.Kind != KindNone }

// Element is the minimal view of a DOM element the classifier needs.
// Implementations must tolerate hostile pages: any method may be called
// on odd nodes and should return zero values rather than panic.
type Element interface {
	// TagName returns the lowercase tag name, or "" when unavailable.
	TagName() string
	// Attr returns an attribute value and whether it is present.
	Attr(name string) (string, bool)
	// IsContentEditable reports the effective contenteditable state.
	IsContentEditable() bool
	// Matches runs a CSS selector against the element itself.
	Matches(selector string) bool
	// HasDescendant reports whether any descendant matches the selector.
	HasDescendant(selector string) bool
	// Parent returns the parent element, or nil at the root.
	Parent() Element
}

// maxAncestorDepth bounds the walk toward the root when checking
// site-specific selectors; rich editors wrap the editable node in a few
// layers at most.
const maxAncestorDepth = 5

var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"email":    true,
	"password": true,
	"search":   true,
	"tel":      true,
	"url":      true,
}

// Classify inspects el and returns what kind of text surface it is, if
// any. A nil element, a classification error, or a hostile node all
// resolve to KindNone.
func Classify(el Element, hostname string, sites Table) (res Result) {
	defer func() {
		if recover() != nil {
			res = Result{}
		}
	}()
	if el == nil {
		return Result{}
	}

	switch el.TagName() {
	case "textarea":
		return Result{Kind: KindTextarea}
	case "input":
		typ, _ := el.Attr("type")
		if textInputTypes[strings.ToLower(typ)] {
			return Result{Kind: KindInput}
		}
		return Result{}
	}

	if isContentEditable(el) {
		return Result{Kind: KindContentEditable}
	}
	if role, ok := el.Attr("role"); ok && strings.EqualFold(role, "textbox") {
		return Result{Kind: KindAriaTextbox}
	}

	if rule, ok := sites.ForHost(hostname); ok {
		if matchesSite(el, rule.Selector) {
			return Result{Kind: KindSiteSpecific, Selector: rule.Selector}
		}
	}
	return Result{}
}

func isContentEditable(el Element) bool {
	if el.IsContentEditable() {
		return true
	}
	v, ok := el.Attr("contenteditable")
	if !ok {
		return false
	}
	return v == "" || strings.EqualFold(v, "true") || strings.EqualFold(v, "plaintext-only")
}

// matchesSite checks the element itself, then its ancestors up to a fixed
// depth, then its descendants. Editors like ProseMirror often deliver the
// key event on a wrapper rather than the editable node itself.
func matchesSite(el Element, selector string) bool {
	cur := el
	for depth := 0; cur != nil && depth <= maxAncestorDepth; depth++ {
		if cur.Matches(selector) {
			return true
		}
		cur = cur.Parent()
	}
	return el.HasDescendant(selector)
}
