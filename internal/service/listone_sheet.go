package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vvf-listone/internal/model"
	applogger "vvf-listone/pkg/logger"
)

// ═══════════════════════════════════════════════════════════
// ExportListoneSheet: stored events of one day as .xlsx
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - row 1: title "Listone <date> - Comando VV.F. <default comando>"
//   - row 2: headers
//   - one row per event, in collection order (newest first)
//   - the operators column lists names resolved from the roster; unknown ids are kept as-is

var sheetColumns = []struct {
	header string
	width  float64
}{
	{"ID", 14},
	{"Data", 12},
	{"Titolo", 36},
	{"Tipo", 14},
	{"Turno", 14},
	{"Luogo", 24},
	{"Operatori", 40},
}

func (s *exportService) ExportListoneSheet(ctx context.Context, date string) (*bytes.Buffer, string, error) {
	if date == "" {
		date = s.roster.SelectedDate()
	}
	if !model.IsISODate(date) {
		return nil, "", ErrInvalidDate
	}

	log := applogger.For(ctx, s.logger)
	events := s.roster.EventsForDate(date)
	names := make(map[string]string)
	for _, op := range s.roster.Operators() {
		names[op.ID] = op.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Listone"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		log.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, col := range sheetColumns {
		name := colName(i)
		f.SetColWidth(sheetName, name, name, col.width)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#B71C1C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// title
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Listone %s - Comando VV.F. %s", date, s.cfg.DefaultComando))
	f.MergeCell(sheetName, "A1", cell(colName(len(sheetColumns)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// headers
	for i, col := range sheetColumns {
		f.SetCellValue(sheetName, cell(colName(i), 2), col.header)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(sheetColumns)-1), 2), headerStyle)

	// rows
	row := 3
	for _, ev := range events {
		values := []string{
			ev.ID,
			ev.Date,
			ev.Field("title"),
			ev.Field("type"),
			ev.Field("shift"),
			ev.Field("location"),
			operatorNames(ev, names),
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}
	if len(events) == 0 {
		f.SetCellValue(sheetName, cell("A", row), "Nessun evento")
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		log.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, s.filename(date, "xlsx"), nil
}

// operatorNames resolves the event's "operators" list against the roster
func operatorNames(ev model.OperationalEvent, names map[string]string) string {
	raw, ok := ev.Extra["operators"].([]any)
	if !ok {
		return ev.Field("operators")
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		id := fmt.Sprint(v)
		if name, ok := names[id]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, id)
	}
	return strings.Join(out, ", ")
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
