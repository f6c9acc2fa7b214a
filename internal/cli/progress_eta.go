package cli

import (
	"fmt"
	"time"
)

const (
	// etaSmoothing weighs the latest rate sample against the running rate.
	etaSmoothing = 0.3
	// maxETA caps the displayed estimate.
	maxETA = 24 * time.Hour
)

// ProgressWithETA extends ProgressState with a smoothed progress rate used to
// estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	lastUpdate   time.Time
	lastProgress float64
	// progressRate is the smoothed progress per second.
	progressRate float64
	now          func() time.Time
}

// NewProgressWithETA creates a tracker for numJobs jobs.
func NewProgressWithETA(numJobs int) *ProgressWithETA {
	return newProgressWithETAClock(numJobs, time.Now)
}

func newProgressWithETAClock(numJobs int, now func() time.Time) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(numJobs),
		lastUpdate:    now(),
		now:           now,
	}
}

// UpdateWithETA records an update and returns the new average progress and
// the estimated remaining time (0 while unknown).
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := p.now()
	elapsed := now.Sub(p.lastUpdate).Seconds()
	if elapsed > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated remaining time, 0 when no rate is known yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1.0 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	secs := remaining / p.progressRate
	if secs >= maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// FormatETA renders an estimate compactly: "< 1s", "45s", "2m30s", "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		if s := int(eta.Seconds()) % 60; s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	default:
		h := int(eta.Hours())
		if m := int(eta.Minutes()) % 60; m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
}

// FormatProgressBarWithETA renders "<pct>% [<bar>] ETA: <eta>".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	etaStr := FormatETA(eta)
	if progress >= 1.0 {
		etaStr = "< 1s"
	}
	return fmt.Sprintf("%6.2f%% [%s] ETA: %s", min(max(progress, 0), 1)*100, progressBar(progress, width), etaStr)
}
