package serial

import (
	"io"
	"time"

	"github.com/golang/glog"
	tarm "github.com/tarm/serial"
)

// Port adapts a host serial device to comm.ByteChannel.
//
// The underlying device read is blocking, so the port is opened with a
// short read timeout and drained into a staging buffer on every
// Available or Read call. This keeps the channel contract non-blocking
// without a reader goroutine.
type Port struct {
	port    *tarm.Port
	staging []byte
	readBuf [256]byte
	closed  bool
}

// Open opens the serial device at the given baud rate.
func Open(device string, baud int) (*Port, error) {
	port, err := tarm.OpenPort(&tarm.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return &Port{port: port}, nil
}

// poll moves pending device bytes into the staging buffer.
func (p *Port) poll() {
	if p.closed {
		return
	}
	for {
		n, err := p.port.Read(p.readBuf[:])
		if n > 0 {
			p.staging = append(p.staging, p.readBuf[:n]...)
		}
		if err != nil {
			// io.EOF is how the timeout surfaces on an idle line.
			if err != io.EOF {
				glog.Warningf("serial read: %v", err)
			}
			return
		}
		if n < len(p.readBuf) {
			return
		}
	}
}

// Available implements comm.ByteChannel.
func (p *Port) Available() int {
	p.poll()
	return len(p.staging)
}

// Read implements comm.ByteChannel.
func (p *Port) Read(dst []byte) int {
	p.poll()
	n := copy(dst, p.staging)
	p.staging = p.staging[n:]
	if len(p.staging) == 0 {
		p.staging = nil
	}
	return n
}

// Write implements comm.ByteChannel.
func (p *Port) Write(src []byte) bool {
	if p.closed {
		return false
	}
	n, err := p.port.Write(src)
	if err != nil {
		glog.Warningf("serial write: %v", err)
		return false
	}
	return n == len(src)
}

// Close closes the device.
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.port.Close()
}
