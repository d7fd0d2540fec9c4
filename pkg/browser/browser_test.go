package browser

import (
	"errors"
	"math"
	"testing"
)

func TestCallExpression(t *testing.T) {
	expr, err := callExpression("renderListone", map[string]any{"comando": "MILANO", "data_giorno": "2026-02-17"})
	if err != nil {
		t.Fatalf("callExpression failed: %v", err)
	}
	want := `window["renderListone"]({"comando":"MILANO","data_giorno":"2026-02-17"})`
	if expr != want {
		t.Errorf("unexpected expression:\nwant %s\ngot  %s", want, expr)
	}
}

func TestCallExpression_EscapesData(t *testing.T) {
	expr, err := callExpression("renderListone", map[string]any{"utente": `</script>"); alert(1); ("`})
	if err != nil {
		t.Fatalf("callExpression failed: %v", err)
	}
	// json.Marshal escapes <, > and quotes, so the payload stays a string literal
	want := `window["renderListone"]({"utente":"\u003c/script\u003e\"); alert(1); (\""})`
	if expr != want {
		t.Errorf("unexpected expression:\nwant %s\ngot  %s", want, expr)
	}
}

func TestCallExpression_Errors(t *testing.T) {
	if _, err := callExpression("", nil); !errors.Is(err, ErrNoEntrypoint) {
		t.Errorf("expected ErrNoEntrypoint, got %v", err)
	}
	if _, err := callExpression("renderListone", math.NaN()); err == nil {
		t.Error("expected encode error for NaN")
	}
}

func TestPrintParams(t *testing.T) {
	p := printParams(PDFOptions{
		PaperWidthIn:    A4WidthIn,
		PaperHeightIn:   A4HeightIn,
		MarginTopMM:     45,
		MarginBottomMM:  20,
		MarginLeftMM:    10,
		MarginRightMM:   10,
		PrintBackground: true,
		HeaderTemplate:  "<div>h</div>",
		FooterTemplate:  "<div></div>",
	})

	if p.PaperWidth != 8.27 || p.PaperHeight != 11.69 {
		t.Errorf("expected A4 paper, got %vx%v", p.PaperWidth, p.PaperHeight)
	}
	if math.Abs(p.MarginTop-45/25.4) > 1e-9 {
		t.Errorf("unexpected top margin %v", p.MarginTop)
	}
	if math.Abs(p.MarginLeft-10/25.4) > 1e-9 || math.Abs(p.MarginRight-10/25.4) > 1e-9 {
		t.Errorf("unexpected side margins %v/%v", p.MarginLeft, p.MarginRight)
	}
	if !p.PrintBackground || !p.DisplayHeaderFooter {
		t.Error("expected backgrounds and header/footer enabled")
	}
	if p.FooterTemplate != "<div></div>" {
		t.Errorf("unexpected footer %q", p.FooterTemplate)
	}
}
