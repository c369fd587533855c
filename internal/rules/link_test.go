// internal/rules/link_test.go
package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/tamzrod/dwin-monitor/internal/vp"
)

func TestLink_FiresOnMatchingWrite(t *testing.T) {
	e, out := newSession(t)

	// light automation off turns fan automation off
	err := InstallLink(e, Link{When: "LIGHT_AUTO", Equals: 0, Set: "FAN_AUTO", Value: 0}, zerolog.Nop())
	assert.NilError(t, err)

	e.Feed(write(0x1110, 1))
	assert.Equal(t, len(out.written), 0)

	e.Feed(write(0x1110, 0))
	assert.Equal(t, len(out.written), 1)
	fan, _ := e.Registry().GetByName("FAN_AUTO")
	assert.Equal(t, fan.Uint(), uint16(0))
}

func TestInstallLink_Validation(t *testing.T) {
	e, _ := newSession(t)

	err := InstallLink(e, Link{When: "NOPE", Equals: 1, Set: "FAN_AUTO", Value: 1}, zerolog.Nop())
	assert.ErrorIs(t, err, vp.ErrUnknownName)

	err = InstallLink(e, Link{When: "LIGHT_AUTO", Equals: 1, Set: "NOPE", Value: 1}, zerolog.Nop())
	assert.ErrorIs(t, err, vp.ErrUnknownName)

	err = InstallLink(e, Link{When: "LIGHT_AUTO", Equals: "on", Set: "FAN_AUTO", Value: 1}, zerolog.Nop())
	assert.ErrorIs(t, err, vp.ErrTypeMismatch)
}
