package gate

import "time"

// reportWindow spaces out usage reports. One logical submission can raise
// several raw key and submit events in quick succession; only the first
// completed sequence inside the window is reported.
const reportWindow = 3 * time.Second

// ReportGuard rate-limits the fire-and-forget usage increment.
type ReportGuard struct {
	last  time.Time
	armed bool
}

// TryReport reports whether a usage increment should be sent now.
func (r *ReportGuard) TryReport(now time.Time) bool {
	if r.armed && now.Sub(r.last) < reportWindow {
		return false
	}
	r.last = now
	r.armed = true
	return true
}
