// internal/rules/link.go
package rules

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/frame"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// Link writes Value to Set whenever the display writes Equals to When.
type Link struct {
	When   string
	Equals any
	Set    string
	Value  any
}

// InstallLink validates l against the schema and registers it.
func InstallLink(s Session, l Link, log zerolog.Logger) error {
	schema := s.Registry().Schema()

	when, ok := schema.LookupName(l.When)
	if !ok {
		return fmt.Errorf("rules: link: %w: %q", vp.ErrUnknownName, l.When)
	}
	if _, ok := schema.LookupName(l.Set); !ok {
		return fmt.Errorf("rules: link: %w: %q", vp.ErrUnknownName, l.Set)
	}

	if l.Equals == nil {
		return fmt.Errorf("rules: link %s: no trigger value", l.When)
	}
	trigger, err := vp.ValueOf(when.Type, l.Equals)
	if err != nil {
		return fmt.Errorf("rules: link %s: %w", l.When, err)
	}

	lg := log.With().Str("rule", "link").Str("when", l.When).Str("set", l.Set).Logger()

	s.RegisterObserver(when.Address, func(msg codec.Message) {
		if msg.Command != frame.CmdWrite || msg.Value != trigger {
			return
		}
		if _, err := s.SendWrite(l.Set, l.Value); err != nil {
			lg.Warn().Err(err).Msg("link write failed")
			return
		}
		lg.Info().Msg("link fired")
	})
	return nil
}
