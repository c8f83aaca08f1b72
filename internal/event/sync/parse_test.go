package sync

import (
	"errors"
	"testing"
)

func TestParsePulseLine_ValidLine(t *testing.T) {
	got, err := parsePulseLine("T42 103.225118\n")
	if err != nil {
		t.Fatalf("parsePulseLine: %v", err)
	}
	want := Pulse{Seq: 42, T: 103.225118}
	if got != want {
		t.Errorf("parsePulseLine = %+v, want %+v", got, want)
	}
}

func TestParsePulseLine_RejectsNonPulseLines(t *testing.T) {
	cases := []string{
		"",
		"OK\n",
		"T\n",
		"T1\n",
		"T1 notanumber\n",
		"Tabc 1.0\n",
	}
	for _, line := range cases {
		if _, err := parsePulseLine(line); !errors.Is(err, ErrNotAPulse) {
			t.Errorf("parsePulseLine(%q) err = %v, want ErrNotAPulse", line, err)
		}
	}
}
