// internal/mirror/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxWriteRegisters is the FC 16 quantity limit.
const MaxWriteRegisters = 123

// Config describes the mirror endpoint.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// link is the part of the TCP handler the client drives.
type link interface {
	Close() error
	setUnit(id uint8)
}

type tcpLink struct{ *modbus.TCPClientHandler }

func (l tcpLink) setUnit(id uint8) { l.SlaveId = id }

// EndpointClient writes holding registers to one Modbus TCP server.
// Requests are serialized because the unit id is set per write.
// After a transport failure the connection is dropped and the next write
// dials again; exception responses keep the connection.
type EndpointClient struct {
	mu     sync.Mutex
	link   link
	client modbus.Client
	drops  int
}

// NewEndpointClient dials cfg.Endpoint.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("mirror modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("mirror modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{link: tcpLink{h}, client: modbus.NewClient(h)}, nil
}

// Close releases the connection.
func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.link.Close()
}

// Drops counts connections abandoned after transport failures.
func (c *EndpointClient) Drops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drops
}

// WriteRegisters writes regs as holding registers (FC 16) starting at addr.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}
	if len(regs) > MaxWriteRegisters {
		return fmt.Errorf("mirror modbus: %d registers exceed the FC 16 limit of %d", len(regs), MaxWriteRegisters)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.link.setUnit(unitID)
	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), PackRegisters(regs))
	if err != nil && !isException(err) {
		// the handler dials again on its next request
		_ = c.link.Close()
		c.drops++
	}
	return err
}

func isException(err error) bool {
	var me *modbus.ModbusError
	return errors.As(err, &me)
}

// PackRegisters lays regs out big-endian, as FC 16 expects.
func PackRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
