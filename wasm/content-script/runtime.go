//go:build js && wasm

package main

import (
	"errors"
	"fmt"
	"syscall/js"
	"time"
)

// requestTimeout bounds one round-trip to the background store.
const requestTimeout = 3 * time.Second

var errNoResponse = errors.New("no response from background")

// runtimeClient bridges chrome.runtime messaging into request/response
// calls. Responses arrive as JSON text so the pure settings code can
// parse them without touching js values.
type runtimeClient struct {
	p      *pageContext
	chrome js.Value
}

func newRuntimeClient(p *pageContext) *runtimeClient {
	return &runtimeClient{p: p, chrome: js.Global().Get("chrome")}
}

type response struct {
	raw string
	err error
}

// request sends one message to the background script and waits for the
// callback or a timeout. Safe to call from any goroutine.
func (c *runtimeClient) request(action string, fields map[string]any) (string, error) {
	if !c.chrome.Truthy() || !c.chrome.Get("runtime").Truthy() {
		return "", errors.New("chrome.runtime unavailable")
	}

	message := map[string]any{"action": action}
	for k, v := range fields {
		message[k] = v
	}

	ch := make(chan response, 1)
	var callback js.Func
	callback = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer callback.Release()
		if lastErr := c.chrome.Get("runtime").Get("lastError"); lastErr.Truthy() {
			ch <- response{err: fmt.Errorf("runtime error: %s", lastErr.Get("message").String())}
			return nil
		}
		if len(args) == 0 || !args[0].Truthy() {
			ch <- response{err: errNoResponse}
			return nil
		}
		ch <- response{raw: stringify(args[0])}
		return nil
	})

	c.chrome.Get("runtime").Call("sendMessage", message, callback)

	select {
	case resp := <-ch:
		return resp.raw, resp.err
	case <-time.After(requestTimeout):
		return "", fmt.Errorf("%s: timed out after %v", action, requestTimeout)
	}
}

// incrementUsage is fire-and-forget: the gating path never waits on it.
func (c *runtimeClient) incrementUsage() {
	if _, err := c.request("incrementUsage", nil); err != nil {
		c.p.log.Debug().Err(err).Msg("usage report failed")
	}
}

// stringify renders a js value as JSON text, or "{}" when it cannot be.
func stringify(v js.Value) (out string) {
	out = "{}"
	defer func() { recover() }()
	if !v.Truthy() {
		return out
	}
	s := js.Global().Get("JSON").Call("stringify", v)
	if s.Type() != js.TypeString {
		return out
	}
	return s.String()
}
