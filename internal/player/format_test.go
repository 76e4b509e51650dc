package player

import (
	"bytes"
	"testing"
)

func TestFormatReaderPassthrough(t *testing.T) {
	src := samples16(1, 2, 3, 4)
	got := readSamples(t, newFormatReader(bytes.NewReader(src), sampleRate, 2))
	want := []int16{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFormatReaderDuplicatesMono(t *testing.T) {
	got := readSamples(t, newFormatReader(bytes.NewReader(samples16(100, 200, 300)), sampleRate, 1))
	want := []int16{100, 100, 200, 200}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFormatReaderUpsamplesByInterpolation(t *testing.T) {
	src := samples16(0, 0, 100, -100, 200, -200)
	got := readSamples(t, newFormatReader(bytes.NewReader(src), sampleRate/2, 2))
	want := []int16{0, 0, 50, -50, 100, -100, 150, -150}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFormatReaderDownsamples(t *testing.T) {
	vals := make([]int16, 0, 2*96)
	for i := range 96 {
		vals = append(vals, int16(i), int16(i))
	}
	got := readSamples(t, newFormatReader(bytes.NewReader(samples16(vals...)), 88200, 2))
	if len(got) != 2*48 {
		t.Fatalf("expected 48 frames, got %d", len(got)/2)
	}
	if got[2] != 2 || got[94] != 94 {
		t.Fatalf("expected every other frame, got %v", got)
	}
}

func TestFormatReaderDropsExtraChannelsAndPartialFrames(t *testing.T) {
	src := append(samples16(1, 2, 3, 4, 5, 6, 7, 8, 9), 0xff)
	got := readSamples(t, newFormatReader(bytes.NewReader(src), sampleRate, 3))
	want := []int16{1, 2, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
