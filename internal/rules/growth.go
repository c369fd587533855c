// internal/rules/growth.go
package rules

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/engine"
	"github.com/tamzrod/dwin-monitor/internal/frame"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// VP names the growth rule reads and derives.
const (
	TotalCycle = "TOTAL_CYCLE"
	GrowthDay  = "GROWTH_DAY"
	GrowthBar  = "GROWTH_BAR"
	GrowthStr  = "GROWTH_STR"
)

// BarSteps is the number of segments of the growth bar.
const BarSteps = 20

// Session is the part of the engine the rules drive.
type Session interface {
	Registry() *vp.Registry
	RegisterObserver(addr uint16, fn engine.Observer)
	SendWrite(name string, value any) ([]byte, error)
}

// Bar returns the growth bar position for day of total, in 1..BarSteps.
func Bar(day, total uint16) uint16 {
	if total == 0 {
		return 1
	}
	bar := math.Round(float64(day) / float64(total) * BarSteps)
	switch {
	case bar < 1:
		return 1
	case bar > BarSteps:
		return BarSteps
	}
	return uint16(bar)
}

// Growth keeps GROWTH_BAR and GROWTH_STR in step with the cycle counters
// the operator edits on the display.
type Growth struct {
	s   Session
	log zerolog.Logger

	day, total uint16
}

// InstallGrowth registers the growth rule on s. It reports false, and
// installs nothing, when the schema lacks any of the four VPs.
func InstallGrowth(s Session, log zerolog.Logger) (*Growth, bool) {
	reg := s.Registry()
	if !reg.Schema().Has(TotalCycle, GrowthDay, GrowthBar, GrowthStr) {
		return nil, false
	}

	g := &Growth{s: s, log: log.With().Str("rule", "growth").Logger()}
	g.day, g.total = g.counters()

	for _, name := range []string{TotalCycle, GrowthDay} {
		addr, _ := reg.Resolve(name)
		s.RegisterObserver(addr, g.observe)
	}
	return g, true
}

func (g *Growth) counters() (day, total uint16) {
	reg := g.s.Registry()
	d, _ := reg.GetByName(GrowthDay)
	t, _ := reg.GetByName(TotalCycle)
	return d.Uint(), t.Uint()
}

func (g *Growth) observe(msg codec.Message) {
	if msg.Command != frame.CmdWrite || !msg.Value.Valid() {
		return
	}

	day, total := g.counters()
	if day == g.day && total == g.total {
		return
	}
	g.day, g.total = day, total

	if err := g.Apply(); err != nil {
		g.log.Warn().Err(err).Msg("growth update failed")
	}
}

// Apply recomputes the derived values from the registry and pushes them.
func (g *Growth) Apply() error {
	day, total := g.counters()
	bar := Bar(day, total)

	if _, err := g.s.SendWrite(GrowthBar, bar); err != nil {
		return fmt.Errorf("%s: %w", GrowthBar, err)
	}
	if _, err := g.s.SendWrite(GrowthStr, fmt.Sprintf("%d/%d", day, total)); err != nil {
		return fmt.Errorf("%s: %w", GrowthStr, err)
	}

	g.log.Info().Uint16("day", day).Uint16("total", total).Uint16("bar", bar).Msg("growth updated")
	return nil
}
