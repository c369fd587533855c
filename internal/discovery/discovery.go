// internal/discovery/discovery.go
package discovery

import (
	"fmt"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Bridge is a known USB-serial adapter used with the displays.
type Bridge struct {
	VID  string
	PID  string
	Name string
}

// Known lists the adapters probed for. IDs are upper-case hex.
var Known = []Bridge{
	{VID: "10C4", PID: "EA60", Name: "CP210x"},
	{VID: "1A86", PID: "7523", Name: "CH340"},
	{VID: "0403", PID: "6001", Name: "FTDI"},
}

// Match reports the known bridge for a VID/PID pair. Case-insensitive.
func Match(vid, pid string) (Bridge, bool) {
	for _, b := range Known {
		if strings.EqualFold(b.VID, vid) && strings.EqualFold(b.PID, pid) {
			return b, true
		}
	}
	return Bridge{}, false
}

// Candidate is an attached port that matched the table.
type Candidate struct {
	Port    string
	Bridge  Bridge
	Serial  string
	Product string
}

func (c Candidate) String() string {
	s := fmt.Sprintf("%s  %s (%s:%s)", c.Port, c.Bridge.Name, c.Bridge.VID, c.Bridge.PID)
	if c.Product != "" {
		s += "  " + c.Product
	}
	if c.Serial != "" {
		s += "  sn=" + c.Serial
	}
	return s
}

// lister is swapped in tests.
var lister = enumerator.GetDetailedPortsList

// Candidates lists attached USB ports whose VID/PID is in Known,
// sorted by port name.
func Candidates() ([]Candidate, error) {
	ports, err := lister()
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}

	var out []Candidate
	for _, p := range ports {
		if p == nil || !p.IsUSB {
			continue
		}
		b, ok := Match(p.VID, p.PID)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Port:    p.Name,
			Bridge:  b,
			Serial:  p.SerialNumber,
			Product: p.Product,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, nil
}
