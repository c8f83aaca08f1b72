package ingest

import (
	"fmt"
	"io"
	"log"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/evcam/ekalibr-go/internal/event"
)

// PCAPSource replays a .pcap capture of UDP-carried event batches, decoding
// each UDP payload with decodeBatch. Grounded on the teacher's
// internal/lidar/network/pcap.go (BPF-filtered gopacket.PacketSource loop).
type PCAPSource struct {
	handle  *pcap.Handle
	packets *gopacket.PacketSource
	udpPort int
	read    int
}

// NewPCAPSource opens path and restricts the capture to UDP traffic on
// udpPort.
func NewPCAPSource(path string, udpPort int) (*PCAPSource, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("open pcap %s: %w", path, err)
	}
	filter := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		handle.Close()
		return nil, fmt.Errorf("set BPF filter %q: %w", filter, err)
	}
	return &PCAPSource{
		handle:  handle,
		packets: gopacket.NewPacketSource(handle, handle.LinkType()),
		udpPort: udpPort,
	}, nil
}

// Next returns the next UDP payload's decoded batch, skipping any packet
// without a UDP layer or with an empty payload.
func (s *PCAPSource) Next() (event.EventArray, error) {
	for {
		packet, ok := <-s.packets.Packets()
		if !ok {
			log.Printf("pcap source exhausted after %d batches", s.read)
			return event.EventArray{}, fmt.Errorf("pcap source: %w", io.EOF)
		}
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok || len(udp.Payload) == 0 {
			continue
		}
		s.read++
		return decodeBatch(udp.Payload), nil
	}
}

// Close releases the underlying pcap handle.
func (s *PCAPSource) Close() error {
	s.handle.Close()
	return nil
}
