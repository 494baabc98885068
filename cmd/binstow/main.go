// binstow — 3D Container Loading Packer
//
// Reads a packing request (a JSON bin+item document, or a bin preset/shape
// paired with a CSV/XLSX item list), runs the deterministic kd-tree packer,
// and writes the JSON result plus any requested manifest exports.
//
// Build:
//
//	go build -o binstow ./cmd/binstow
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/moschd/binstow/internal/engine"
	"github.com/moschd/binstow/internal/export"
	"github.com/moschd/binstow/internal/importer"
	"github.com/moschd/binstow/internal/model"
	"github.com/moschd/binstow/internal/project"
)

type config struct {
	requestPath string
	itemsPath   string
	preset      string

	width, depth, height, maxWeight float64
	sortMethod, packingDirection    string
	gravityStrength                 int
	nrOfAvailableBins, itemLimit    int

	jsonOut   string
	pdfOut    string
	labelsOut string
	xlsxOut   string
	dxfDir    string

	listPresets bool
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := parseFlags()

	if cfg.listPresets {
		if err := printPresets(); err != nil {
			logger.Error("listing presets", "error", err)
			os.Exit(1)
		}
		return
	}

	req, err := buildRequest(cfg)
	if err != nil {
		logger.Error("building pack request", "error", err)
		os.Exit(1)
	}

	logger.Info("packing", "items", len(req.Items), "bin_width", req.Bin.Width, "bin_depth", req.Bin.Depth, "bin_height", req.Bin.Height)

	result := engine.NewPacker().Pack(req)

	logger.Info("packed",
		"bins", result.RequiredNrOfBins,
		"volume_util_pct", result.TotalVolumeUtil,
		"weight_util_pct", result.TotalWeightUtil,
		"unfitted", len(result.UnfittedItems),
	)
	if result.Exception != "" {
		logger.Warn("packing exception", "exception", result.Exception)
	}

	if err := writeOutputs(cfg, result); err != nil {
		logger.Error("writing outputs", "error", err)
		os.Exit(1)
	}
}

func parseFlags() config {
	var cfg config

	flag.StringVar(&cfg.requestPath, "request", "", "path to a full JSON pack request (bin + items); takes precedence over -items/-preset")
	flag.StringVar(&cfg.itemsPath, "items", "", "path to a CSV or XLSX item list")
	flag.StringVar(&cfg.preset, "preset", "", "named bin preset to use as the container shape (see -list-presets)")

	flag.Float64Var(&cfg.width, "width", 0, "bin width (ignored if -preset or -request is set)")
	flag.Float64Var(&cfg.depth, "depth", 0, "bin depth (ignored if -preset or -request is set)")
	flag.Float64Var(&cfg.height, "height", 0, "bin height (ignored if -preset or -request is set)")
	flag.Float64Var(&cfg.maxWeight, "max-weight", 0, "bin max weight")
	flag.StringVar(&cfg.sortMethod, "sort", string(model.SortVolume), "sort method: VOLUME, WEIGHT, or OPTIMIZED")
	flag.StringVar(&cfg.packingDirection, "direction", string(model.PackingBottomUp), "packing direction: BOTTOMUP or BACKTOFRONT")
	flag.IntVar(&cfg.gravityStrength, "gravity", 100, "bin-wide gravity support strength percentage [0,100]")
	flag.IntVar(&cfg.nrOfAvailableBins, "max-bins", 0, "maximum number of bins to open (0 = unlimited)")
	flag.IntVar(&cfg.itemLimit, "item-limit", 0, "maximum number of items per bin (0 = unlimited)")

	flag.StringVar(&cfg.jsonOut, "json", "", "path to write the JSON result (default: stdout)")
	flag.StringVar(&cfg.pdfOut, "pdf", "", "path to write a PDF manifest")
	flag.StringVar(&cfg.labelsOut, "labels", "", "path to write QR-coded item labels PDF")
	flag.StringVar(&cfg.xlsxOut, "xlsx", "", "path to write an XLSX manifest workbook")
	flag.StringVar(&cfg.dxfDir, "dxf-dir", "", "directory to write one floor-plan DXF per bin")

	flag.BoolVar(&cfg.listPresets, "list-presets", false, "print available bin presets (built-in and custom) and exit")

	flag.Parse()
	return cfg
}

func printPresets() error {
	presets := project.BuiltInProfiles()
	custom, err := project.LoadCustomProfilesFromDefault()
	if err != nil {
		return fmt.Errorf("loading custom presets: %w", err)
	}
	presets = append(presets, custom...)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(presets)
}

// buildRequest assembles a model.PackRequest from a full JSON request file,
// or from an item list (CSV/XLSX) combined with a bin shape (preset or
// explicit dimensions).
func buildRequest(cfg config) (model.PackRequest, error) {
	if cfg.requestPath != "" {
		f, err := os.Open(cfg.requestPath)
		if err != nil {
			return model.PackRequest{}, fmt.Errorf("open request file: %w", err)
		}
		defer f.Close()
		return importer.ParseRequest(f)
	}

	binSpec, err := resolveBinSpec(cfg)
	if err != nil {
		return model.PackRequest{}, err
	}

	items, err := resolveItems(cfg.itemsPath)
	if err != nil {
		return model.PackRequest{}, err
	}

	return model.PackRequest{Bin: binSpec, Items: items}, nil
}

func resolveBinSpec(cfg config) (model.BinSpec, error) {
	spec := model.DefaultBinSpec()

	if cfg.preset != "" {
		found, err := findPreset(cfg.preset)
		if err != nil {
			return model.BinSpec{}, err
		}
		spec = found.Bin
	} else {
		spec.Width, spec.Depth, spec.Height = cfg.width, cfg.depth, cfg.height
	}

	if cfg.maxWeight > 0 {
		spec.MaxWeight = cfg.maxWeight
	}
	if cfg.sortMethod != "" {
		spec.SortMethod = model.SortMethod(strings.ToUpper(cfg.sortMethod))
	}
	if cfg.packingDirection != "" {
		spec.PackingDirection = model.PackingDirection(strings.ToUpper(cfg.packingDirection))
	}
	spec.GravityStrength = cfg.gravityStrength
	spec.NrOfAvailableBins = cfg.nrOfAvailableBins
	spec.ItemLimit = cfg.itemLimit

	if spec.Width <= 0 || spec.Depth <= 0 || spec.Height <= 0 {
		return model.BinSpec{}, fmt.Errorf("bin dimensions must be positive: set -preset or -width/-depth/-height")
	}
	return spec, nil
}

func findPreset(name string) (model.BinPreset, error) {
	all := project.BuiltInProfiles()
	custom, err := project.LoadCustomProfilesFromDefault()
	if err != nil {
		return model.BinPreset{}, fmt.Errorf("loading custom presets: %w", err)
	}
	all = append(all, custom...)

	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return model.BinPreset{}, fmt.Errorf("no preset named %q (see -list-presets)", name)
}

func resolveItems(itemsPath string) ([]model.ItemSpec, error) {
	if itemsPath == "" {
		return nil, fmt.Errorf("no item source: set -request or -items")
	}

	var result importer.ImportResult
	switch ext := fileExt(itemsPath); ext {
	case ".xlsx":
		result = importer.ImportItemsXLSX(itemsPath)
	default:
		result = importer.ImportItemsCSV(itemsPath)
	}

	for _, w := range result.Warnings {
		slog.Warn("import warning", "message", w)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("import errors: %v", result.Errors)
	}

	items := make([]model.ItemSpec, 0, len(result.Items))
	for _, spec := range result.Items {
		spec = spec.WithDefaults()
		baseID := spec.ID
		qty := spec.Quantity
		spec.Quantity = 1
		for i := 0; i < qty; i++ {
			cp := spec
			if qty > 1 {
				cp.ID = fmt.Sprintf("%s-%d", baseID, i+1)
			}
			items = append(items, cp)
		}
	}
	return items, nil
}

func fileExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func writeOutputs(cfg config, result model.PackResult) error {
	if cfg.jsonOut == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("write json to stdout: %w", err)
		}
	} else if err := export.ExportJSON(cfg.jsonOut, result); err != nil {
		return fmt.Errorf("export json: %w", err)
	}

	if cfg.pdfOut != "" {
		if err := export.ExportPDF(cfg.pdfOut, result); err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
	}
	if cfg.labelsOut != "" {
		if err := export.ExportLabels(cfg.labelsOut, result); err != nil {
			return fmt.Errorf("export labels: %w", err)
		}
	}
	if cfg.xlsxOut != "" {
		if err := export.ExportXLSX(cfg.xlsxOut, result); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
	}
	if cfg.dxfDir != "" {
		if err := os.MkdirAll(cfg.dxfDir, 0755); err != nil {
			return fmt.Errorf("create dxf directory: %w", err)
		}
		if _, err := export.ExportFloorPlanDXF(cfg.dxfDir, result); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
	}
	return nil
}
