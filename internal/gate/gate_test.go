package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safeenter/internal/settings"
)

func activeSettings() *settings.Settings {
	s := settings.Default()
	s.DomainEnabled = true
	return &s
}

func enter() KeyPress { return KeyPress{Enter: true} }

func TestHandleKeyDisabledDomainPassesThrough(t *testing.T) {
	s := settings.Default() // DomainEnabled false
	g := New(&s)

	d := g.HandleKey(enter(), true, at(0))
	assert.Equal(t, ActionPassThrough, d.Action)
	assert.Zero(t, g.Count())
}

func TestHandleKeyModifiersBypass(t *testing.T) {
	g := New(activeSettings())

	for _, k := range []KeyPress{
		{Enter: true, Shift: true},
		{Enter: true, Ctrl: true},
		{Enter: true, Alt: true},
		{Enter: true, Meta: true},
	} {
		d := g.HandleKey(k, true, at(0))
		assert.Equal(t, ActionPassThrough, d.Action)
		assert.False(t, d.InsertBreak)
		assert.Nil(t, d.Feedback)
	}
	// Modified presses never advance the tracker.
	assert.Zero(t, g.Count())
}

func TestHandleKeyRepeatIgnored(t *testing.T) {
	g := New(activeSettings())

	d := g.HandleKey(KeyPress{Enter: true, Repeat: true}, true, at(0))
	assert.Equal(t, ActionPassThrough, d.Action)
	assert.Zero(t, g.Count())
}

func TestHandleKeyCountsToThreshold(t *testing.T) {
	g := New(activeSettings()) // pressCount 3, delay 600

	d := g.HandleKey(enter(), true, at(0))
	require.Equal(t, ActionSuppress, d.Action)
	assert.True(t, d.InsertBreak)
	require.NotNil(t, d.Feedback)
	assert.Equal(t, 1, d.Feedback.CurrentCount)
	assert.Equal(t, 3, d.Feedback.RequiredCount)
	assert.False(t, d.Feedback.IsComplete)

	d = g.HandleKey(enter(), true, at(200))
	require.Equal(t, ActionSuppress, d.Action)
	assert.Equal(t, 2, d.Feedback.CurrentCount)

	d = g.HandleKey(enter(), true, at(400))
	require.Equal(t, ActionAllowSubmit, d.Action)
	assert.False(t, d.InsertBreak)
	require.NotNil(t, d.Feedback)
	assert.Equal(t, 3, d.Feedback.CurrentCount)
	assert.True(t, d.Feedback.IsComplete)
	assert.True(t, d.ReportUsage)

	// Tracker is back at zero immediately after completion.
	assert.Zero(t, g.Count())
}

func TestHandleKeyNonTextSurfaceSuppressesWithoutBreak(t *testing.T) {
	g := New(activeSettings())

	d := g.HandleKey(enter(), false, at(0))
	assert.Equal(t, ActionSuppress, d.Action)
	assert.False(t, d.InsertBreak)
}

func TestHandleKeyGapRestartsSequence(t *testing.T) {
	g := New(activeSettings())

	g.HandleKey(enter(), true, at(0))
	d := g.HandleKey(enter(), true, at(900))
	require.NotNil(t, d.Feedback)
	assert.Equal(t, 1, d.Feedback.CurrentCount)
}

func TestHandleKeyAlwaysLineBreakMode(t *testing.T) {
	s := activeSettings()
	s.Mode = settings.ModeAlwaysLineBreak
	g := New(s)

	for i := 0; i < 10; i++ {
		d := g.HandleKey(enter(), true, at(i*100))
		assert.Equal(t, ActionSuppress, d.Action)
		assert.True(t, d.InsertBreak)
		require.NotNil(t, d.Feedback)
		assert.False(t, d.Feedback.IsComplete)
		assert.True(t, d.Feedback.IsLineBreakMode)
	}
	// The tracker is never consulted or advanced in this mode.
	assert.Zero(t, g.Count())
}

func TestHandleKeyFeedbackSuppressedWhenDisabled(t *testing.T) {
	s := activeSettings()
	s.ShowFeedback = false
	g := New(s)

	d := g.HandleKey(enter(), true, at(0))
	assert.Equal(t, ActionSuppress, d.Action)
	assert.Nil(t, d.Feedback)
}

func TestHandleSubmitBlocksIncompleteSequence(t *testing.T) {
	g := New(activeSettings())

	g.HandleKey(enter(), true, at(0))
	d := g.HandleSubmit(at(50))
	assert.Equal(t, ActionSuppress, d.Action)
	require.NotNil(t, d.Feedback)
	assert.Equal(t, 1, d.Feedback.CurrentCount)
}

func TestHandleSubmitAllowsAfterCompletedSequence(t *testing.T) {
	g := New(activeSettings())

	g.HandleKey(enter(), true, at(0))
	g.HandleKey(enter(), true, at(200))
	d := g.HandleKey(enter(), true, at(400))
	require.Equal(t, ActionAllowSubmit, d.Action)

	// The browser fires the form submit right after the allowed keydown;
	// it must pass even though the tracker already reset.
	assert.Equal(t, ActionPassThrough, g.HandleSubmit(at(410)).Action)

	// The grace pass is consumed: a second submit is gated again.
	assert.Equal(t, ActionSuppress, g.HandleSubmit(at(420)).Action)
}

func TestHandleSubmitGraceExpires(t *testing.T) {
	s := activeSettings()
	s.PressCount = 1
	g := New(s)

	require.Equal(t, ActionAllowSubmit, g.HandleKey(enter(), true, at(0)).Action)
	assert.Equal(t, ActionSuppress, g.HandleSubmit(at(2000)).Action)
}

func TestHandleSubmitAllowsWhenInactive(t *testing.T) {
	s := settings.Default()
	g := New(&s)
	assert.Equal(t, ActionPassThrough, g.HandleSubmit(at(0)).Action)
}

func TestHandleSubmitAllowsInLineBreakMode(t *testing.T) {
	s := activeSettings()
	s.Mode = settings.ModeAlwaysLineBreak
	g := New(s)

	// Buttons and programmatic submits must keep working: Enter never
	// reaches the form in this mode, so the submit guard stays out of
	// the way.
	assert.Equal(t, ActionPassThrough, g.HandleSubmit(at(0)).Action)
}

func TestResetSequenceMidFlight(t *testing.T) {
	g := New(activeSettings())

	g.HandleKey(enter(), true, at(0))
	g.HandleKey(enter(), true, at(100))
	require.Equal(t, 2, g.Count())

	// A settings update arrives mid-sequence.
	g.ResetSequence()

	d := g.HandleKey(enter(), true, at(200))
	require.NotNil(t, d.Feedback)
	assert.Equal(t, 1, d.Feedback.CurrentCount)
}

func TestUsageReportedOncePerWindow(t *testing.T) {
	s := activeSettings()
	s.PressCount = 1
	g := New(s)

	d := g.HandleKey(enter(), true, at(0))
	require.Equal(t, ActionAllowSubmit, d.Action)
	assert.True(t, d.ReportUsage)

	// A second completed sequence right after the first stays silent.
	d = g.HandleKey(enter(), true, at(500))
	require.Equal(t, ActionAllowSubmit, d.Action)
	assert.False(t, d.ReportUsage)

	d = g.HandleKey(enter(), true, at(4000))
	assert.True(t, d.ReportUsage)
}

func TestReportGuardWindow(t *testing.T) {
	var r ReportGuard
	assert.True(t, r.TryReport(at(0)))
	assert.False(t, r.TryReport(at(2999)))
	assert.True(t, r.TryReport(at(3500)))
}
