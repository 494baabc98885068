package engine

import "testing"

func TestObeysGravity_FloorAlwaysSupported(t *testing.T) {
	trying := box3{pos: point3{0, 0, 0}, width: 5, depth: 5, height: 5}
	if !obeysGravity(trying, nil, 100) {
		t.Fatal("an item resting on the bin floor always has full support")
	}
}

func TestObeysGravity_PartialSupportBelowRequirement(t *testing.T) {
	trying := box3{pos: point3{0, 0, 5}, width: 10, depth: 10, height: 1}
	support := box3{pos: point3{0, 0, 0}, width: 5, depth: 5, height: 5}

	if obeysGravity(trying, []box3{support}, 100) {
		t.Fatal("25% footprint coverage should not satisfy a 100% requirement")
	}
	if !obeysGravity(trying, []box3{support}, 25) {
		t.Fatal("25% footprint coverage should satisfy a 25% requirement")
	}
}

func TestActiveGravityStrength_ItemOverrideWins(t *testing.T) {
	if activeGravityStrength(50, 100) != 50 {
		t.Fatal("a nonzero item override must win over the bin strength")
	}
	if activeGravityStrength(0, 100) != 100 {
		t.Fatal("a zero item override must fall back to the bin strength")
	}
}
