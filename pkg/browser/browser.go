// Package browser drives a headless Chrome to turn an HTML template into a PDF.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Launcher starts one isolated browser per call
type Launcher interface {
	Launch(ctx context.Context) (Instance, error)
}

// Instance a running browser. Close must be called exactly once on every path.
type Instance interface {
	Render(ctx context.Context, job Job) ([]byte, error)
	Close() error
}

// Job one HTML → PDF render
type Job struct {
	HTML       string // document loaded into a fresh page
	Entrypoint string // page-global function invoked with Data as sole argument
	Data       any    // JSON-encodable argument for Entrypoint

	// Exactly one settle strategy applies: SettleSignal when set, otherwise SettleDelay.
	SettleDelay   time.Duration
	SettleSignal  string // JS expression that becomes true when rendering is done
	SignalTimeout time.Duration

	PDF PDFOptions
}

// PDFOptions page setup of the printed document
type PDFOptions struct {
	PaperWidthIn    float64
	PaperHeightIn   float64
	MarginTopMM     float64
	MarginBottomMM  float64
	MarginLeftMM    float64
	MarginRightMM   float64
	PrintBackground bool
	HeaderTemplate  string
	FooterTemplate  string
}

// A4 portrait in inches
const (
	A4WidthIn  = 8.27
	A4HeightIn = 11.69
)

var ErrNoEntrypoint = errors.New("browser: job has no entrypoint")

// mmToIn converts millimetres to the inches the DevTools protocol expects
func mmToIn(mm float64) float64 {
	return mm / 25.4
}

// callExpression builds `window["fn"](<data>)` with both parts JSON-encoded
func callExpression(entrypoint string, data any) (string, error) {
	if entrypoint == "" {
		return "", ErrNoEntrypoint
	}
	name, err := json.Marshal(entrypoint)
	if err != nil {
		return "", err
	}
	arg, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode render data: %w", err)
	}
	return fmt.Sprintf("window[%s](%s)", name, arg), nil
}
