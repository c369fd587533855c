// internal/poller/runner.go
package poller

import "time"

// Tick runs the jobs that are due at now. The first call only arms the
// schedule: the initial push already wrote the clock.
// No overlap, no catch-up: a late tick runs each job once.
func (p *Poller) Tick(now time.Time) error {
	return p.Step(now).Err
}

// Step is Tick with a report of what ran.
func (p *Poller) Step(now time.Time) Result {
	res := Result{At: now}

	if p.nextRefresh.IsZero() && p.nextPoll.IsZero() {
		p.nextRefresh = now.Add(p.cfg.RefreshInterval)
		p.nextPoll = now.Add(p.cfg.PollInterval)
		return res
	}

	if p.cfg.ClockVP != "" && !now.Before(p.nextRefresh) {
		p.nextRefresh = now.Add(p.cfg.RefreshInterval)
		if err := p.RefreshOnce(now); err != nil {
			res.Err = err
			return res
		}
		res.Refreshed = true
	}

	if len(p.cfg.Reads) > 0 && !now.Before(p.nextPoll) {
		p.nextPoll = now.Add(p.cfg.PollInterval)
		n, err := p.PollOnce()
		res.Polled = n
		if err != nil {
			res.Err = err
			return res
		}
	}

	return res
}
