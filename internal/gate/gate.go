// Package gate implements the Enter-key submission gate as a pure state
// machine. It owns the press tracker and turns key and submit events into
// decisions; applying those decisions to the live DOM is the content
// script's job, which keeps the machine testable without a browser.
package gate

import (
	"time"

	"safeenter/internal/settings"
)

// KeyPress is the relevant shape of one keydown event.
type KeyPress struct {
	Enter  bool
	Shift  bool
	Ctrl   bool
	Alt    bool
	Meta   bool
	Repeat bool
}

// Modified reports whether any modifier key was held. Modified Enter is
// the documented escape hatch and always falls through to native behavior.
func (k KeyPress) Modified() bool {
	return k.Shift || k.Ctrl || k.Alt || k.Meta
}

// Action is what the caller must do with the native event.
type Action int

const (
	// ActionPassThrough leaves the event untouched.
	ActionPassThrough Action = iota
	// ActionSuppress cancels the event (preventDefault + stopPropagation).
	ActionSuppress
	// ActionAllowSubmit lets the native Enter behavior proceed after a
	// completed sequence.
	ActionAllowSubmit
)

// Feedback is the progress payload consumed by the visual overlay.
type Feedback struct {
	CurrentCount    int  `json:"currentCount"`
	RequiredCount   int  `json:"requiredCount"`
	IsComplete      bool `json:"isComplete"`
	IsLineBreakMode bool `json:"isLineBreakMode"`
}

// Decision is the outcome of one event.
type Decision struct {
	Action      Action
	InsertBreak bool
	Feedback    *Feedback
	ReportUsage bool
}

// submitGrace covers the interval between an allowed Enter keydown and
// the submit event the browser fires for it. The tracker has already
// reset by then, so the submit guard needs its own pass.
const submitGrace = time.Second

// Gate drives the press sequence for one page context. The settings
// pointer is shared with the settings sync client, which is the only
// other writer and runs on the same thread.
type Gate struct {
	settings *settings.Settings
	tracker  Tracker
	reports  ReportGuard

	allowedAt  time.Time
	allowArmed bool
}

// New creates a gate bound to the page's live settings.
func New(s *settings.Settings) *Gate {
	return &Gate{settings: s}
}

// HandleKey processes one Enter keydown and returns what to do with it.
func (g *Gate) HandleKey(k KeyPress, isTextSurface bool, now time.Time) Decision {
	s := g.settings
	if s == nil || !s.DomainEnabled || !k.Enter || k.Repeat || k.Modified() {
		return Decision{Action: ActionPassThrough}
	}

	if s.Mode == settings.ModeAlwaysLineBreak {
		return Decision{
			Action:      ActionSuppress,
			InsertBreak: isTextSurface,
			Feedback:    g.feedback(g.tracker.Count(), false),
		}
	}

	res := g.tracker.Press(now, s.Window(), s.PressCount)
	if !res.ThresholdReached {
		return Decision{
			Action:      ActionSuppress,
			InsertBreak: isTextSurface,
			Feedback:    g.feedback(res.Count, false),
		}
	}

	// Sequence complete: let the native submit happen and start over.
	count := res.Count
	g.tracker.Reset()
	g.allowedAt = now
	g.allowArmed = true
	return Decision{
		Action:      ActionAllowSubmit,
		Feedback:    g.feedback(count, true),
		ReportUsage: g.reports.TryReport(now),
	}
}

// HandleSubmit guards a native form submit event. It is a safety net for
// submissions that bypassed the keydown path: in normal mode an
// incomplete sequence cancels the submit. In line-break mode submits are
// left alone so buttons keep working; Enter never reaches the form there.
func (g *Gate) HandleSubmit(now time.Time) Decision {
	s := g.settings
	if s == nil || !s.DomainEnabled || s.Mode != settings.ModeNormal {
		return Decision{Action: ActionPassThrough}
	}
	if g.allowArmed && now.Sub(g.allowedAt) <= submitGrace {
		g.allowArmed = false
		return Decision{Action: ActionPassThrough}
	}
	if g.tracker.Count() >= s.PressCount {
		return Decision{Action: ActionPassThrough}
	}
	return Decision{
		Action:   ActionSuppress,
		Feedback: g.feedback(g.tracker.Count(), false),
	}
}

// ResetSequence discards any in-flight press sequence. Called whenever a
// settings update replaces the active configuration.
func (g *Gate) ResetSequence() { g.tracker.Reset() }

// Count exposes the current press count.
func (g *Gate) Count() int { return g.tracker.Count() }

func (g *Gate) feedback(count int, complete bool) *Feedback {
	s := g.settings
	if !s.ShowFeedback {
		return nil
	}
	return &Feedback{
		CurrentCount:    count,
		RequiredCount:   s.PressCount,
		IsComplete:      complete,
		IsLineBreakMode: s.Mode == settings.ModeAlwaysLineBreak,
	}
}
