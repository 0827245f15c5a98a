// Command gerb2img compiles one or more Gerber RS-274X files into a single
// monochrome raster image.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/kennycoder/gerb2img/config"
	"github.com/kennycoder/gerb2img/gerber"
	"github.com/kennycoder/gerb2img/raster"
)

var (
	dpi          float64
	DPI          float64
	scaleX       float64
	scaleY       float64
	growPixels   float64
	borderPixels float64
	invert       bool
	invertShort  bool
	rowsPerStrip int
	format       string
	formatShort  string
	configPath   string
)

func main() {
	flag.Float64Var(&dpi, "dpi", 1000, "Output resolution in DPI")
	flag.Float64Var(&DPI, "p", 1000, "Output resolution in DPI (short)")
	flag.Float64Var(&scaleX, "scale-x", 1, "X axis scale factor")
	flag.Float64Var(&scaleY, "scale-y", 1, "Y axis scale factor")
	flag.Float64Var(&growPixels, "grow-pixels", 0, "Grow every aperture/stroke by this many pixels")
	flag.Float64Var(&borderPixels, "border-pixels", 0, "Pad the output image by this many pixels on every side")
	flag.BoolVar(&invert, "negative", false, "Invert the base image polarity")
	flag.BoolVar(&invertShort, "n", false, "Invert the base image polarity (short)")
	flag.IntVar(&rowsPerStrip, "strip-rows", 0, "Rows per rasterized strip (0 = whole image)")
	flag.StringVar(&format, "format", "tiff", "Output image format: tiff or bmp")
	flag.StringVar(&formatShort, "f", "", "Output image format (short)")
	flag.StringVar(&configPath, "config", "", "Load options from a JSON configuration record instead of flags")
	flag.Parse()

	if DPI != 1000 {
		dpi = DPI
	}
	if invertShort {
		invert = true
	}
	if formatShort != "" {
		format = formatShort
	}

	args := flag.Args()
	var inputs []string
	var outPath string

	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Printf("loading config: %v", err)
			os.Exit(int(config.ErrorJSONProcessing))
		}
		dpi = cfg.ImageDPI
		scaleX, scaleY = cfg.ScaleX, cfg.ScaleY
		invert = cfg.InvertPolarity
		rowsPerStrip = cfg.RowsPerStrip
		growPixels = gerber.GrowPixels(cfg.GrowSize, cfg.GrowUnitsMM, dpi)
		borderPixels = gerber.GrowPixels(cfg.Border, cfg.BorderUnitsMM, dpi)
		inputs = cfg.Inputs
		if len(args) > 0 {
			outPath = args[0]
		}
	} else {
		if len(args) < 1 {
			fmt.Println("Usage: gerb2img [options] <gerber-file> [<output-image>]")
			fmt.Println("Options:")
			flag.PrintDefaults()
			os.Exit(int(config.ErrorInvalidParameters))
		}
		inputs = []string{args[0]}
		if len(args) > 1 {
			outPath = args[1]
		}
	}

	if outPath == "" {
		ext := ".tif"
		if format == "bmp" {
			ext = ".bmp"
		}
		outPath = strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0])) + ext
	}

	doc, err := compileAll(inputs)
	if err != nil {
		log.Printf("error: %v", err)
		os.Exit(int(config.ErrorFileOpenFailed))
	}
	for _, w := range doc.Warnings {
		log.Printf("warning: %s", w.Message)
	}
	if doc.Err != nil {
		log.Printf("error: %v", doc.Err)
		os.Exit(int(config.ExitCodeFor(doc.Err.Kind)))
	}

	basePolarity := raster.Dark
	imagePolarityDark := doc.ImagePolarityDark != invert
	if !imagePolarityDark {
		basePolarity = raster.Clear
	}

	border := int(borderPixels + 0.5)
	bm := raster.NewBitmap(doc.MaxX-doc.MinX+1+2*border, doc.MaxY-doc.MinY+1+2*border, imagePolarityDark)
	params := raster.Params{
		MinX: doc.MinX, MaxX: doc.MaxX, MinY: doc.MinY, MaxY: doc.MaxY,
		Border: border, RowsPerStrip: rowsPerStrip, BasePolarity: basePolarity,
	}
	nextRow := 0
	res, err := raster.Rasterize(context.Background(), doc.Polygons, params, func(stripIndex int, row []byte, rows int) error {
		bm.SetStrip(nextRow, row, rows)
		nextRow += rows
		return nil
	})
	if err != nil {
		log.Printf("error rendering: %v", err)
		os.Exit(int(config.ErrorMemoryAllocation))
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Printf("error creating output file %q: %v", outPath, err)
		os.Exit(int(config.ErrorOutputFileCreation))
	}
	defer out.Close()

	switch format {
	case "bmp":
		err = bmp.Encode(out, bm)
	default:
		err = tiff.Encode(out, bm, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		log.Printf("error encoding output: %v", err)
		os.Exit(int(config.ErrorOutputFileCreation))
	}

	fmt.Printf("Wrote %s (%dx%d, %d dark pixels)\n", outPath, res.Width, res.Height, res.DarkPixels)
}

func loadConfig(path string) (config.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return config.Config{}, err
	}
	defer f.Close()
	return config.LoadJSON(f)
}

// compileAll parses every input stream and merges the resulting documents'
// polygons into one, matching §6 "multi-file overlay": each stream is
// parsed independently and the results are composited by the rasterizer.
func compileAll(paths []string) (*gerber.Document, error) {
	var merged *gerber.Document
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", path, err)
		}
		d, err := gerber.Parse(f, gerber.ParseOptions{DPI: dpi, ScaleX: scaleX, ScaleY: scaleY, GrowPixels: growPixels})
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if merged == nil {
			merged = d
			continue
		}
		merged.Polygons = append(merged.Polygons, d.Polygons...)
		merged.Warnings = append(merged.Warnings, d.Warnings...)
		if merged.Err == nil {
			merged.Err = d.Err
		}
		if d.MinX < merged.MinX {
			merged.MinX = d.MinX
		}
		if d.MaxX > merged.MaxX {
			merged.MaxX = d.MaxX
		}
		if d.MinY < merged.MinY {
			merged.MinY = d.MinY
		}
		if d.MaxY > merged.MaxY {
			merged.MaxY = d.MaxY
		}
	}
	return merged, nil
}
