package sync

import (
	"context"
	"io"
	"testing"
	"time"
)

// mockPort implements TriggerPorter over an io.Pipe, mirroring the
// teacher's MockSerialPort: a readable end fed by the test, a discarded
// write side.
type mockPort struct {
	io.Reader
	io.Closer
}

func (m *mockPort) Write(p []byte) (int, error) { return len(p), nil }

func newMockPort() (*mockPort, *io.PipeWriter) {
	r, w := io.Pipe()
	return &mockPort{Reader: r, Closer: r}, w
}

func TestListener_MonitorFansOutPulsesToSubscribers(t *testing.T) {
	port, w := newMockPort()
	l := NewListener[*mockPort](port)
	id, ch := l.Subscribe()
	defer l.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Monitor(ctx) }()

	go func() {
		w.Write([]byte("T1 0.100000\nT2 0.200000\n"))
	}()

	first := <-ch
	if first != (Pulse{Seq: 1, T: 0.1}) {
		t.Errorf("first pulse = %+v, want {1 0.1}", first)
	}
	second := <-ch
	if second != (Pulse{Seq: 2, T: 0.2}) {
		t.Errorf("second pulse = %+v, want {2 0.2}", second)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Monitor did not return after context cancellation")
	}
}

func TestListener_SkipsUnparseableLinesWithoutStopping(t *testing.T) {
	port, w := newMockPort()
	l := NewListener[*mockPort](port)
	id, ch := l.Subscribe()
	defer l.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Monitor(ctx)

	go func() {
		w.Write([]byte("BANNER v1.0\nT5 1.500000\n"))
	}()

	got := <-ch
	if got != (Pulse{Seq: 5, T: 1.5}) {
		t.Errorf("got %+v, want {5 1.5}", got)
	}
}

func TestListener_CloseClosesSubscriberChannels(t *testing.T) {
	port, _ := newMockPort()
	l := NewListener[*mockPort](port)
	_, ch := l.Subscribe()

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("expected subscriber channel to be closed")
	}
}
