// Package model holds the plain wire-level data types exchanged with the
// packing engine: the request (bins and items to be packed) and the result
// (placements, utilisation, unfitted items).
package model

import "github.com/google/uuid"

// RotationMode enumerates the six axis-aligned orientations an item may be
// placed in. The numeric codes and descriptions are a wire contract and must
// not be renumbered.
type RotationMode int

const (
	RotationWDH RotationMode = iota // no rotation
	RotationDWH                     // rotate around the z-axis by 90 degrees
	RotationHDW                     // rotate around the x-axis by 90 degrees
	RotationDHW                     // rotate around the x-axis by 90 degrees, then the z-axis by 90 degrees
	RotationWHD                     // rotate around the y-axis by 90 degrees
	RotationHWD                     // rotate around the z-axis by 90 degrees, then the x-axis by 90 degrees
)

// rotationDescriptions mirrors the wire contract's rotation code table
// verbatim; it is the authoritative source for these six strings.
var rotationDescriptions = [6]string{
	RotationWDH: "No rotation",
	RotationDWH: "Rotate around the z-axis by 90°",
	RotationHDW: "Rotate around the x-axis by 90°",
	RotationDHW: "Rotate around the x-axis by 90° and then around the z-axis by 90°",
	RotationWHD: "Rotate around the y-axis by 90°",
	RotationHWD: "Rotate around the z-axis by 90° and then around the x-axis by 90°",
}

// Description returns the human-readable text for a rotation code.
func (r RotationMode) Description() string {
	if r < RotationWDH || r > RotationHWD {
		return "Unknown rotation"
	}
	return rotationDescriptions[r]
}

// AllRotationCodes is the default allowedRotations string when an item
// specifies none: every mode is permitted, tried in ascending code order.
const AllRotationCodes = "012345"

// SortMethod controls the order items within a consolidation-key group are
// attempted in.
type SortMethod string

const (
	SortVolume    SortMethod = "VOLUME"
	SortWeight    SortMethod = "WEIGHT"
	SortOptimized SortMethod = "OPTIMIZED"
)

// PackingDirection controls which axis free-extension search order the bin
// uses. BottomUp searches WIDTH, DEPTH, HEIGHT (the default); BackToFront
// swaps the last two, searching WIDTH, HEIGHT, DEPTH instead. Only BottomUp
// is compatible with the OPTIMIZED sort method's homogeneous layer hint.
type PackingDirection string

const (
	PackingBottomUp    PackingDirection = "BOTTOMUP"
	PackingBackToFront PackingDirection = "BACKTOFRONT"
)

// ItemSpec is one item to be packed, as received over the wire.
type ItemSpec struct {
	ID               string  `json:"id,omitempty"`
	ItemConsKey      string  `json:"itemConsKey"`
	Width            float64 `json:"width"`
	Depth            float64 `json:"depth"`
	Height           float64 `json:"height"`
	Weight           float64 `json:"weight"`
	Quantity         int     `json:"qty"`
	AllowedRotations string  `json:"allowedRotations,omitempty"`
	GravityStrength  int     `json:"gravityStrength,omitempty"`
}

// WithDefaults fills in an omitted id and rotation string.
func (s ItemSpec) WithDefaults() ItemSpec {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.AllowedRotations == "" {
		s.AllowedRotations = AllRotationCodes
	}
	if s.Quantity <= 0 {
		s.Quantity = 1
	}
	return s
}

// BinSpec describes the cuboid container shape and the packing run's tuning.
type BinSpec struct {
	ID                string           `json:"id,omitempty"`
	Type              string           `json:"type,omitempty"`
	Width             float64          `json:"width"`
	Depth             float64          `json:"depth"`
	Height            float64          `json:"height"`
	MaxWeight         float64          `json:"maxWeight"`
	GravityStrength   int              `json:"gravityStrength"`
	SortMethod        SortMethod       `json:"sortMethod"`
	PackingDirection  PackingDirection `json:"packingDirection"`
	NrOfAvailableBins int              `json:"nrOfAvailableBins,omitempty"`
	ItemLimit         int              `json:"itemLimit,omitempty"`
}

// DefaultBinSpec returns a BinSpec with sensible defaults for a caller that
// only wants to override a few fields.
func DefaultBinSpec() BinSpec {
	return BinSpec{
		SortMethod:        SortVolume,
		PackingDirection:  PackingBottomUp,
		GravityStrength:   100,
		NrOfAvailableBins: 0, // 0 means unlimited
	}
}

// PackRequest is the full inbound packing request.
type PackRequest struct {
	Bin   BinSpec    `json:"bin"`
	Items []ItemSpec `json:"items"`
}

// Placement is one item's final position, dimensions and rotation within a
// bin.
type Placement struct {
	ItemID       string       `json:"itemId"`
	ItemConsKey  string       `json:"itemConsKey"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	Z            float64      `json:"z"`
	Width        float64      `json:"width"`
	Depth        float64      `json:"depth"`
	Height       float64      `json:"height"`
	Weight       float64      `json:"weight"`
	Rotation     RotationMode `json:"rotationType"`
	RotationDesc string       `json:"rotationTypeDescription"`
}

// BinResult is one opened, (possibly partially) packed bin.
type BinResult struct {
	ID               string      `json:"id"`
	Type             string      `json:"type,omitempty"`
	ItemCount        int         `json:"itemCount"`
	MaxVolume        float64     `json:"maxVolume"`
	ActualVolume     float64     `json:"actualVolume"`
	ActualVolumeUtil float64     `json:"actualVolumeUtil"`
	MaxWeight        float64     `json:"maxWeight"`
	ActualWeight     float64     `json:"actualWeight"`
	ActualWeightUtil float64     `json:"actualWeightUtil"`
	Items            []Placement `json:"items"`
}

// PackResult is the full outbound packing result.
type PackResult struct {
	RequiredNrOfBins int         `json:"requiredNrOfBins"`
	TotalVolumeUtil  float64     `json:"totalVolumeUtil"`
	TotalWeightUtil  float64     `json:"totalWeightUtil"`
	Bins             []BinResult `json:"packedBins"`
	UnfittedItems    []ItemSpec  `json:"unfittedItems"`
	Exception        string      `json:"exception,omitempty"`
}

// BinPreset is a named, reusable BinSpec, e.g. "40ft reefer" or "EUR pallet
// cage". IsBuiltIn marks a preset shipped with the tool rather than one the
// caller saved themselves; it is always cleared on load/import so a caller
// can never resurrect a stale built-in flag from disk.
type BinPreset struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	IsBuiltIn   bool    `json:"isBuiltIn"`
	Bin         BinSpec `json:"bin"`
}
