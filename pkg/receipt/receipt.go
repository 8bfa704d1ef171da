// Package receipt reads the payable amount from photographed receipts.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/shopspring/decimal"
)

// ErrNoAmount is returned when no plausible monetary amount can be extracted.
var ErrNoAmount = errors.New("no amount detected")

// Result is what a scan found on a receipt.
type Result struct {
	Amount decimal.Decimal
	Raw    string // matched text, e.g. "Total: 1,250.00"
	Text   string // full normalized OCR text
}

// Scanner extracts an amount from the image at path.
type Scanner interface {
	Scan(ctx context.Context, path string) (Result, error)
}

// TesseractScanner runs Tesseract OCR over a preprocessed copy of the image.
type TesseractScanner struct {
	Languages []string

	recognize func(path string) (string, error) // defaults to Tesseract
}

func NewTesseractScanner(languages ...string) *TesseractScanner {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractScanner{Languages: languages}
}

// Scan runs OCR on a separate goroutine. When ctx is cancelled first, Scan
// returns ctx.Err() and the OCR run is left to finish and clean up on its own.
func (s *TesseractScanner) Scan(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	prepared, err := preprocessToTemp(path)
	if err != nil {
		return Result{}, fmt.Errorf("preprocess %s: %w", path, err)
	}

	type ocrResult struct {
		text string
		err  error
	}
	done := make(chan ocrResult, 1)
	go func() {
		defer os.Remove(prepared)
		recognize := s.recognize
		if recognize == nil {
			recognize = s.ocr
		}
		text, err := recognize(prepared)
		done <- ocrResult{text: text, err: err}
	}()

	var text string
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return Result{}, r.err
		}
		text = r.text
	}

	amt, raw, ok := ExtractAmount(text)
	if !ok {
		return Result{Text: normalizeText(text)}, ErrNoAmount
	}
	return Result{Amount: amt, Raw: raw, Text: normalizeText(text)}, nil
}

func (s *TesseractScanner) ocr(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(s.Languages...); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}

// normalizeText collapses whitespace and newlines.
func normalizeText(t string) string {
	return strings.Join(strings.Fields(t), " ")
}
