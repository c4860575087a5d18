// Package sheet renders a generated portfolio into a PDF contact sheet for
// visual inspection of the gaze grid.
package sheet

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/gazegrid/internal/index"
	"github.com/hyperifyio/gazegrid/internal/naming"
)

const (
	pageWidth  = 210.0 // A4 portrait, mm
	pageHeight = 297.0
	margin     = 10.0
	labelGap   = 4.0
)

// Build reads the index at indexPath, lays out the referenced images from
// dir row-major across A4 pages and writes the PDF to outPath. Images the
// directory no longer contains are skipped. columns <= 0 defaults to 7 and
// cell <= 0 derives the cell size from the column count.
func Build(indexPath, dir, outPath string, columns int, cell float64) error {
	rows, err := index.Read(indexPath)
	if err != nil {
		return err
	}
	if columns <= 0 {
		columns = 7
	}
	if cell <= 0 {
		cell = (pageWidth - 2*margin) / float64(columns)
	}
	rowsPerPage := int((pageHeight - 2*margin) / (cell + labelGap))
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 6)

	placed := 0
	perPage := columns * rowsPerPage
	for _, row := range rows {
		imgPath := filepath.Join(dir, row.Filename)
		pngBytes, err := transcodePNG(imgPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("contact sheet: %s: %w", row.Filename, err)
		}

		slot := placed % perPage
		if slot == 0 {
			pdf.AddPage()
		}
		col := slot % columns
		line := slot / columns
		x := margin + float64(col)*cell
		y := margin + float64(line)*(cell+labelGap)

		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(row.Filename, opts, bytes.NewReader(pngBytes))
		pdf.ImageOptions(row.Filename, x, y, cell, cell, false, opts, 0, "")
		label := fmt.Sprintf("(%s, %s)", naming.FormatValue(row.PupilX), naming.FormatValue(row.PupilY))
		pdf.Text(x, y+cell+2.5, label)
		placed++
	}
	if placed == 0 {
		return fmt.Errorf("contact sheet: no images from %s found in %s", indexPath, dir)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("contact sheet: create output directory: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("contact sheet: write %s: %w", outPath, err)
	}
	return nil
}

// transcodePNG loads a portfolio image and re-encodes it as PNG, the format
// gofpdf's reader registry accepts.
func transcodePNG(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := decode(raw)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(raw []byte) (image.Image, error) {
	if img, err := webp.Decode(bytes.NewReader(raw)); err == nil {
		return img, nil
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
