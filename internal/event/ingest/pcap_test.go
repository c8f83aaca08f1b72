package ingest

import "testing"

func TestNewPCAPSource_RejectsMissingFile(t *testing.T) {
	if _, err := NewPCAPSource("/nonexistent/capture.pcap", 7777); err == nil {
		t.Error("expected an error opening a nonexistent pcap file")
	}
}
