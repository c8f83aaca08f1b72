package ingest

import (
	"net"
	"testing"

	"github.com/evcam/ekalibr-go/internal/event"
)

func TestUDPSource_NextDecodesOneDatagramPerBatch(t *testing.T) {
	src, err := NewUDPSource("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewUDPSource: %v", err)
	}
	defer src.Close()

	want := []event.Event{
		{T: 1, X: 10, Y: 20, Polarity: true},
		{T: 2, X: 11, Y: 21, Polarity: false},
	}
	var payload []byte
	for _, e := range want {
		payload = append(payload, encodeRecord(e)...)
	}

	conn, err := net.DialUDP("udp", nil, src.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	batch, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(batch.Events) != len(want) {
		t.Fatalf("got %d events, want %d", len(batch.Events), len(want))
	}
	if batch.TBatch != 2 {
		t.Errorf("TBatch = %v, want 2", batch.TBatch)
	}
}

func TestUDPSource_CloseUnblocksNext(t *testing.T) {
	src, err := NewUDPSource("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewUDPSource: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := src.Next(); err == nil {
		t.Error("expected Next to fail after Close")
	}
}
