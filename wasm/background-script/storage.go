//go:build js && wasm

package main

import (
	"errors"
	"fmt"
	"syscall/js"
	"time"
)

// storageTimeout bounds one chrome.storage round-trip.
const storageTimeout = 3 * time.Second

type storageResult struct {
	raw string
	err error
}

// storageGet reads keys from a chrome.storage area and returns the result
// object as JSON text.
func (s *settingsStore) storageGet(area string, keys ...string) (string, error) {
	st := s.chrome.Get("storage").Get(area)
	if !st.Truthy() {
		return "", fmt.Errorf("storage area %q unavailable", area)
	}

	keyList := make([]any, len(keys))
	for i, k := range keys {
		keyList[i] = k
	}

	ch := make(chan storageResult, 1)
	var callback js.Func
	callback = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer callback.Release()
		if lastErr := s.chrome.Get("runtime").Get("lastError"); lastErr.Truthy() {
			ch <- storageResult{err: errors.New(lastErr.Get("message").String())}
			return nil
		}
		if len(args) == 0 {
			ch <- storageResult{raw: "{}"}
			return nil
		}
		ch <- storageResult{raw: stringify(args[0])}
		return nil
	})
	st.Call("get", keyList, callback)

	select {
	case res := <-ch:
		return res.raw, res.err
	case <-time.After(storageTimeout):
		return "", fmt.Errorf("storage get %v: timed out", keys)
	}
}

// storageSet writes a JSON object payload into a chrome.storage area.
func (s *settingsStore) storageSet(area, payload string) error {
	st := s.chrome.Get("storage").Get(area)
	if !st.Truthy() {
		return fmt.Errorf("storage area %q unavailable", area)
	}

	obj, err := parseJSON(payload)
	if err != nil {
		return err
	}

	ch := make(chan error, 1)
	var callback js.Func
	callback = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer callback.Release()
		if lastErr := s.chrome.Get("runtime").Get("lastError"); lastErr.Truthy() {
			ch <- errors.New(lastErr.Get("message").String())
			return nil
		}
		ch <- nil
		return nil
	})
	st.Call("set", obj, callback)

	select {
	case err := <-ch:
		return err
	case <-time.After(storageTimeout):
		return errors.New("storage set: timed out")
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

// parseJSON turns JSON text into a js object.
func parseJSON(raw string) (obj js.Value, err error) {
	defer func() {
		if recover() != nil {
			obj, err = js.Undefined(), errors.New("invalid JSON payload")
		}
	}()
	return js.Global().Get("JSON").Call("parse", raw), nil
}
