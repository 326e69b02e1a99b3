package source

import (
	"testing"
)

func TestParseBuddyInfoSumsZones(t *testing.T) {
	raw := []byte(`Node 0, zone      DMA      1      1      0      2
Node 0, zone    DMA32    100     50     25     10
Node 0, zone   Normal   2000   1000    500    250
`)
	got := parseBuddyInfo(raw)
	want := []uint64{2101, 1051, 525, 262}

	if len(got) != len(want) {
		t.Fatalf("order count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order %d: %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParseBuddyInfoIgnoresGarbage(t *testing.T) {
	raw := []byte(`this is not buddyinfo
Node 0, zone   Normal      4      2      1

Node garbage without zone keyword at all here ok
`)
	got := parseBuddyInfo(raw)
	want := []uint64{4, 2, 1}

	if len(got) != len(want) {
		t.Fatalf("order count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order %d: %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParseBuddyInfoEmpty(t *testing.T) {
	if got := parseBuddyInfo(nil); len(got) != 0 {
		t.Fatalf("parse of empty input = %v, want none", got)
	}
}
