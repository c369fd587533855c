// internal/status/constants.go
package status

// Session Status Block layout constants.
// These values define the mirrored register layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerSession is the fixed number of registers in the status block.
const SlotsPerSession = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the session health state.
const SlotHealthCode = 0

// SlotFramesIn counts decoded inbound frames (wraps at 65535).
const SlotFramesIn = 1

// SlotFramesOut counts transmitted frames (wraps at 65535).
const SlotFramesOut = 2

// SlotChecksumErrors counts inbound frames rejected by checksum.
const SlotChecksumErrors = 3

// SlotTimeouts counts partial frames dropped on timeout.
const SlotTimeouts = 4

// SlotRejected counts inbound values refused by the registry.
const SlotRejected = 5

// Slots 6–11 are reserved.
const SlotReservedStart = 6
const SlotReservedEnd = 11

// ---- SESSION ID ----

// SlotSessionStart is the first slot holding the session id text.
// The id is always placed at the END of the block.
const SlotSessionStart = 12

// SlotSessionSlots is the number of slots reserved for the session id.
const SlotSessionSlots = 8

// SessionMaxChars is the number of ASCII characters stored for the session id.
const SessionMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown is the state before the display answered.
const HealthUnknown uint16 = 0

// HealthOK means the display is talking.
const HealthOK uint16 = 1

// HealthError means the last transport operation failed.
const HealthError uint16 = 2

// HealthClosed means the session ended.
const HealthClosed uint16 = 3
