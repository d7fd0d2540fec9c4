package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"regexp"

	"go.uber.org/zap"

	"vvf-listone/config"
	"vvf-listone/internal/model"
	"vvf-listone/pkg/browser"
	applogger "vvf-listone/pkg/logger"
)

// ── export errors ──

var (
	ErrExportMissingPayload = errors.New("missing data")
	ErrExportGenerateFail   = errors.New("failed to generate spreadsheet")
)

// Listone payload fields read by the service; everything else is opaque
const (
	FieldComando    = "comando"
	FieldUtente     = "utente"
	FieldDataGiorno = "data_giorno"
)

const (
	listoneEntrypoint  = "renderListone"
	listoneReadySignal = "window.__listoneReady === true"

	marginTopMM    = 45 // room for the repeating header
	marginBottomMM = 20
	marginSideMM   = 10
)

// RosterSource read access to the roster used by the spreadsheet export
type RosterSource interface {
	EventsForDate(date string) []model.OperationalEvent
	Operators() []model.Operator
	SelectedDate() string
}

// ExportService Listone exports.
//
//   - GenerateListonePDF renders the posted payload through the HTML template
//     in a dedicated headless browser and returns the PDF bytes.
//   - ExportListoneSheet writes the stored events of one day to an .xlsx file.
type ExportService interface {
	GenerateListonePDF(ctx context.Context, payload map[string]any) ([]byte, string, error)
	ExportListoneSheet(ctx context.Context, date string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg      config.ExportConfig
	launcher browser.Launcher
	roster   RosterSource
	logger   *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(cfg config.ExportConfig, launcher browser.Launcher, roster RosterSource, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, launcher: launcher, roster: roster, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// GenerateListonePDF
// ═══════════════════════════════════════════════════════════
//
// One browser per call, released on every path after it was acquired:
//   launch → read template → set content → renderListone(payload) → settle → print → close
//
// The request context only carries values here: a started render runs to
// completion even if the client goes away.

func (s *exportService) GenerateListonePDF(ctx context.Context, payload map[string]any) (pdf []byte, filename string, err error) {
	if payload == nil {
		return nil, "", ErrExportMissingPayload
	}
	ctx = context.WithoutCancel(ctx)
	log := applogger.For(ctx, s.logger)

	// 1. acquire
	inst, err := s.launcher.Launch(ctx)
	if err != nil {
		log.Error("PDF generation error", zap.String("stage", "launch"), zap.Error(err))
		return nil, "", err
	}
	defer func() {
		if cerr := inst.Close(); cerr != nil {
			log.Warn("browser release failed", zap.Error(cerr))
		}
	}()

	// 2. template, read fresh on every request
	tmpl, err := os.ReadFile(s.cfg.TemplatePath)
	if err != nil {
		log.Error("PDF generation error", zap.String("stage", "template"), zap.Error(err))
		return nil, "", fmt.Errorf("load template: %w", err)
	}

	// 3. render
	job := browser.Job{
		HTML:        string(tmpl),
		Entrypoint:  listoneEntrypoint,
		Data:        payload,
		SettleDelay: s.cfg.SettleDelay,
		PDF: browser.PDFOptions{
			PaperWidthIn:    browser.A4WidthIn,
			PaperHeightIn:   browser.A4HeightIn,
			MarginTopMM:     marginTopMM,
			MarginBottomMM:  marginBottomMM,
			MarginLeftMM:    marginSideMM,
			MarginRightMM:   marginSideMM,
			PrintBackground: true,
			HeaderTemplate:  s.headerTemplate(payload),
			FooterTemplate:  "<div></div>",
		},
	}
	if s.cfg.SettleMode == config.SettleSignal {
		job.SettleSignal = listoneReadySignal
		job.SignalTimeout = s.cfg.SignalTimeout
	}

	pdf, err = inst.Render(ctx, job)
	if err != nil {
		log.Error("PDF generation error", zap.String("stage", "render"), zap.Error(err))
		return nil, "", err
	}

	filename = s.filename(stringField(payload, FieldDataGiorno), "pdf")
	log.Info("listone generated", zap.String("filename", filename), zap.Int("bytes", len(pdf)))
	return pdf, filename, nil
}

// headerTemplate repeating page header. pageNumber/totalPages are filled in by Chrome.
func (s *exportService) headerTemplate(payload map[string]any) string {
	utente := stringField(payload, FieldUtente)
	if utente == "" {
		utente = s.cfg.DefaultUtente
	}
	comando := stringField(payload, FieldComando)
	if comando == "" {
		comando = s.cfg.DefaultComando
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; font-size: 8pt; width: 100%%; margin: 0 10mm; border-bottom: 1px solid #000; padding-bottom: 5px;">
  <div style="display: flex; justify-content: space-between; align-items: flex-start; width: 100%%;">
    <div style="width: 150px;">UTENTE: %s</div>
    <div style="text-align: center; flex: 1;">
      <div style="font-weight: bold; text-transform: uppercase;">Ministero dell'Interno</div>
      <div style="font-weight: bold; text-transform: uppercase;">Comando VV.F. %s</div>
      <div style="font-size: 6pt; margin-top: 2px;">DIPARTIMENTO DEI VIGILI DEL FUOCO DEL SOCCORSO PUBBLICO E DELLA DIFESA CIVILE</div>
    </div>
    <div style="width: 150px; text-align: right;">
      Pagina <span class="pageNumber"></span> di <span class="totalPages"></span>
    </div>
  </div>
</div>`, html.EscapeString(utente), html.EscapeString(comando))
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// filename "<prefix>_<date>.<ext>"; characters unsafe in a header are dropped
func (s *exportService) filename(date, ext string) string {
	date = unsafeFilenameChars.ReplaceAllString(date, "")
	if date == "" {
		return fmt.Sprintf("%s.%s", s.cfg.FilenamePrefix, ext)
	}
	return fmt.Sprintf("%s_%s.%s", s.cfg.FilenamePrefix, date, ext)
}

func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
