package ingest

import (
	"fmt"
	"net"

	"github.com/evcam/ekalibr-go/internal/event"
)

// maxDatagramSize bounds one UDP read; batches larger than this are
// truncated by the kernel before they reach us, which decodeBatch then
// tolerates as a short trailing record.
const maxDatagramSize = 64 * 1024

// UDPSource listens for live event batches on a UDP port, one datagram per
// batch. Grounded on the teacher's internal/lidar/network/udp_interface.go
// (net.UDPConn wrapped directly; no mock-socket layer here since nothing in
// this package needs socket injection beyond what net.ListenUDP gives a
// caller constructing against 127.0.0.1:0 in tests).
type UDPSource struct {
	conn *net.UDPConn
	buf  []byte
}

// NewUDPSource binds addr (e.g. ":7777") and returns a ready UDPSource.
func NewUDPSource(addr string) (*UDPSource, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve udp addr %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %s: %w", addr, err)
	}
	return &UDPSource{conn: conn, buf: make([]byte, maxDatagramSize)}, nil
}

// LocalAddr returns the bound address, useful when addr was ":0".
func (s *UDPSource) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// Next blocks for the next datagram and decodes it into a batch.
func (s *UDPSource) Next() (event.EventArray, error) {
	n, _, err := s.conn.ReadFromUDP(s.buf)
	if err != nil {
		return event.EventArray{}, fmt.Errorf("read udp datagram: %w", err)
	}
	return decodeBatch(s.buf[:n]), nil
}

// Close closes the UDP socket.
func (s *UDPSource) Close() error {
	return s.conn.Close()
}
