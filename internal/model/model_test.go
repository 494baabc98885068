package model

import "testing"

func TestRotationMode_DescriptionMatchesWireContract(t *testing.T) {
	cases := map[RotationMode]string{
		RotationWDH: "No rotation",
		RotationWHD: "Rotate around the y-axis by 90°",
	}
	for code, want := range cases {
		if got := code.Description(); got != want {
			t.Errorf("rotation %d: got %q, want %q", code, got, want)
		}
	}
}

func TestItemSpec_WithDefaultsFillsIDAndRotations(t *testing.T) {
	s := ItemSpec{Width: 1, Depth: 1, Height: 1}
	filled := s.WithDefaults()

	if filled.ID == "" {
		t.Error("expected a generated ID when none was supplied")
	}
	if filled.AllowedRotations != AllRotationCodes {
		t.Errorf("expected default allowedRotations %q, got %q", AllRotationCodes, filled.AllowedRotations)
	}
	if filled.Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", filled.Quantity)
	}
}

func TestItemSpec_WithDefaultsPreservesExplicitValues(t *testing.T) {
	s := ItemSpec{ID: "item-1", AllowedRotations: "03", Quantity: 5}
	filled := s.WithDefaults()

	if filled.ID != "item-1" {
		t.Error("explicit ID must not be overwritten")
	}
	if filled.AllowedRotations != "03" {
		t.Error("explicit allowedRotations must not be overwritten")
	}
	if filled.Quantity != 5 {
		t.Error("explicit quantity must not be overwritten")
	}
}

func TestDefaultBinSpec(t *testing.T) {
	spec := DefaultBinSpec()
	if spec.SortMethod != SortVolume {
		t.Errorf("expected default sort method %q, got %q", SortVolume, spec.SortMethod)
	}
	if spec.GravityStrength != 100 {
		t.Errorf("expected default gravity strength 100, got %d", spec.GravityStrength)
	}
}
