// internal/status/snapshot.go
package status

// Snapshot is the observable state of one protocol session.
type Snapshot struct {
	Session string
	Health  uint16

	FramesIn       uint64
	FramesOut      uint64
	ChecksumErrors uint64
	Timeouts       uint64
	Rejected       uint64
	Ignored        uint64

	LastError string
}

// HealthName is a label for logs.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthClosed:
		return "closed"
	default:
		return "unknown"
	}
}
