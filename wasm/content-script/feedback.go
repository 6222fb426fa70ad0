//go:build js && wasm

package main

import (
	"syscall/js"

	"safeenter/internal/gate"
)

// feedbackEventName is the CustomEvent the overlay renderer listens for.
const feedbackEventName = "tripleSubmitFeedback"

// emitFeedback publishes one progress event for the visual overlay. The
// overlay owns all rendering; this side only describes the state change.
func (p *pageContext) emitFeedback(f gate.Feedback) {
	defer func() { recover() }()
	detail := map[string]any{
		"currentCount":    f.CurrentCount,
		"requiredCount":   f.RequiredCount,
		"isComplete":      f.IsComplete,
		"isLineBreakMode": f.IsLineBreakMode,
		"instanceId":      p.id,
	}
	evt := js.Global().Get("CustomEvent").New(feedbackEventName, map[string]any{
		"detail": detail,
	})
	document.Call("dispatchEvent", evt)
}
