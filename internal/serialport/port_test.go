// internal/serialport/port_test.go
package serialport

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goburrow/serial"
	"gotest.tools/v3/assert"
)

type fakeDevice struct {
	rx      []byte
	tx      bytes.Buffer
	readErr error
	hungUp  bool
	closes  int
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}
	if d.hungUp {
		return 0, nil
	}
	if len(d.rx) == 0 {
		return 0, serial.ErrTimeout
	}
	n := copy(p, d.rx)
	d.rx = d.rx[n:]
	return n, nil
}

func (d *fakeDevice) Write(p []byte) (int, error) { return d.tx.Write(p) }

func (d *fakeDevice) Close() error {
	d.closes++
	return nil
}

func withDevice(t *testing.T, d *fakeDevice) *serial.Config {
	t.Helper()
	var got serial.Config
	prev := opener
	opener = func(c *serial.Config) (io.ReadWriteCloser, error) {
		got = *c
		return d, nil
	}
	t.Cleanup(func() { opener = prev })
	return &got
}

func TestOpen_Configures8N1(t *testing.T) {
	got := withDevice(t, &fakeDevice{})

	p, err := Open(Config{Address: "/dev/ttyUSB0", BaudRate: 115200})
	assert.NilError(t, err)
	assert.Equal(t, p.Name(), "/dev/ttyUSB0")

	assert.Equal(t, got.BaudRate, 115200)
	assert.Equal(t, got.DataBits, 8)
	assert.Equal(t, got.StopBits, 1)
	assert.Equal(t, got.Parity, "N")
	assert.Equal(t, got.Timeout, DefaultReadTimeout)
}

func TestOpen_Validation(t *testing.T) {
	withDevice(t, &fakeDevice{})

	_, err := Open(Config{BaudRate: 9600})
	assert.ErrorContains(t, err, "address required")

	_, err = Open(Config{Address: "COM3"})
	assert.ErrorContains(t, err, "baud")
}

func TestOpen_Failure(t *testing.T) {
	prev := opener
	opener = func(*serial.Config) (io.ReadWriteCloser, error) { return nil, errors.New("no such device") }
	t.Cleanup(func() { opener = prev })

	_, err := Open(Config{Address: "/dev/ttyUSB9", BaudRate: 9600, ReadTimeout: time.Second})
	assert.ErrorContains(t, err, "no such device")
}

func TestReadWrite(t *testing.T) {
	d := &fakeDevice{rx: []byte{0x5A, 0xA5, 0x03}}
	withDevice(t, d)

	p, err := Open(Config{Address: "COM3", BaudRate: 115200})
	assert.NilError(t, err)

	b, err := p.Read(2)
	assert.NilError(t, err)
	assert.DeepEqual(t, b, []byte{0x5A, 0xA5})

	b, err = p.Read(16)
	assert.NilError(t, err)
	assert.DeepEqual(t, b, []byte{0x03})

	// timeout is an empty read, not an error
	b, err = p.Read(16)
	assert.NilError(t, err)
	assert.Equal(t, len(b), 0)

	n, err := p.Write([]byte{1, 2, 3})
	assert.NilError(t, err)
	assert.Equal(t, n, 3)
	assert.DeepEqual(t, d.tx.Bytes(), []byte{1, 2, 3})

	d.readErr = errors.New("device gone")
	_, err = p.Read(16)
	assert.ErrorContains(t, err, "device gone")
}

func TestRead_HangupIsAnError(t *testing.T) {
	d := &fakeDevice{rx: []byte{0x5A}}
	withDevice(t, d)

	p, err := Open(Config{Address: "/dev/ttyUSB0", BaudRate: 115200})
	assert.NilError(t, err)

	b, err := p.Read(8)
	assert.NilError(t, err)
	assert.DeepEqual(t, b, []byte{0x5A})

	d.hungUp = true
	_, err = p.Read(8)
	assert.ErrorIs(t, err, ErrHangup)
	assert.ErrorContains(t, err, "/dev/ttyUSB0")
}

func TestClose_Idempotent(t *testing.T) {
	d := &fakeDevice{}
	withDevice(t, d)

	p, err := Open(Config{Address: "COM3", BaudRate: 115200})
	assert.NilError(t, err)

	assert.NilError(t, p.Close())
	assert.NilError(t, p.Close())
	assert.Equal(t, d.closes, 1)
	assert.Assert(t, !p.IsOpen())

	_, err = p.Read(1)
	assert.ErrorIs(t, err, io.EOF)
	_, err = p.Write([]byte{1})
	assert.ErrorContains(t, err, "closed")
}
