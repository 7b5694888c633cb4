// Package assembler provides a gofpdf DocumentAssembler that builds volume
// PDFs from ordered items.
package assembler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/klauspost/compress/zstd"

	"github.com/bjud-in-oss/bindery/types"
)

// attachmentLevels maps engine compression levels to the zstd encoder level
// used for embedded item content. CompressionNone embeds content as-is.
var attachmentLevels = map[types.CompressionLevel]zstd.EncoderLevel{
	types.CompressionLow:    zstd.SpeedFastest,
	types.CompressionMedium: zstd.SpeedDefault,
	types.CompressionHigh:   zstd.SpeedBestCompression,
}

// Fpdf assembles a volume PDF containing a title page, a manifest of the
// packed items, and each item's content embedded as a file attachment.
//
// Output is deterministic for identical (items, title, level) input: the PDF
// creation date is pinned so repeated assembly of unchanged content yields
// byte-identical artifacts.
type Fpdf struct {
	provider types.ContentProvider
	encoders map[types.CompressionLevel]*zstd.Encoder

	fontFamily string
}

var _ types.DocumentAssembler = (*Fpdf)(nil)

// FpdfOption configures an Fpdf assembler.
type FpdfOption func(*Fpdf)

// WithFontFamily overrides the built-in font family used for the title page
// and manifest. The default is Helvetica.
func WithFontFamily(family string) FpdfOption {
	return func(a *Fpdf) {
		a.fontFamily = family
	}
}

// NewFpdf creates an assembler reading item content from provider.
func NewFpdf(provider types.ContentProvider, opts ...FpdfOption) (*Fpdf, error) {
	if provider == nil {
		return nil, fmt.Errorf("content provider is required")
	}

	a := &Fpdf{provider: provider, fontFamily: "Helvetica"}
	for _, opt := range opts {
		opt(a)
	}

	a.encoders = make(map[types.CompressionLevel]*zstd.Encoder, len(attachmentLevels))
	for level, encLevel := range attachmentLevels {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder for level %s: %w", level, err)
		}
		a.encoders[level] = enc
	}

	return a, nil
}

// Assemble implements types.DocumentAssembler.
func (a *Fpdf) Assemble(ctx context.Context, items []types.Item, title string, level types.CompressionLevel) ([]byte, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("invalid compression level %d", level)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetTitle(title, true)

	a.writeTitlePage(pdf, title, level, len(items))
	a.writeManifest(pdf, items)

	attachments := make([]gofpdf.Attachment, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := a.provider.Content(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch content for item %q: %w", item.ID, err)
		}

		name := item.ID
		if level != types.CompressionNone {
			data = a.encoders[level].EncodeAll(data, nil)
			name += ".zst"
		}
		attachments = append(attachments, gofpdf.Attachment{
			Content:     data,
			Filename:    name,
			Description: item.Title,
		})
	}
	pdf.SetAttachments(attachments)

	if pdf.Err() {
		return nil, fmt.Errorf("assemble %q: %s", title, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}

	return buf.Bytes(), nil
}

// Close releases the attachment encoders. The assembler must not be used
// afterwards.
func (a *Fpdf) Close() error {
	for _, enc := range a.encoders {
		enc.Close()
	}

	return nil
}

func (a *Fpdf) writeTitlePage(pdf *gofpdf.Fpdf, title string, level types.CompressionLevel, count int) {
	pdf.AddPage()
	pdf.SetFont(a.fontFamily, "B", 24)
	pdf.Ln(60)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.SetFont(a.fontFamily, "", 11)
	pdf.Ln(4)
	pdf.CellFormat(0, 8, fmt.Sprintf("%d items, compression %s", count, level), "", 1, "C", false, 0, "")
}

func (a *Fpdf) writeManifest(pdf *gofpdf.Fpdf, items []types.Item) {
	pdf.AddPage()
	pdf.SetFont(a.fontFamily, "B", 14)
	pdf.CellFormat(0, 10, "Contents", "", 1, "L", false, 0, "")
	pdf.SetFont(a.fontFamily, "", 10)
	for i, item := range items {
		label := item.Title
		if label == "" {
			label = item.ID
		}
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s", i+1, label), "", 1, "L", false, 0, "")
	}
}
