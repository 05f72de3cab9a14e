package report

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/navid-fn/radar/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestClassify(t *testing.T) {
	high := decimal.RequireFromString("0.5")
	low := decimal.RequireFromString("-0.5")

	tests := []struct {
		name  string
		value decimal.NullDecimal
		want  Highlight
	}{
		{"well above", nd("11.11"), HighlightHighPositive},
		{"at upper bound", nd("0.5"), HighlightHighPositive},
		{"just below upper", nd("0.49"), HighlightNeutral},
		{"zero", nd("0"), HighlightNeutral},
		{"just above lower", nd("-0.49"), HighlightNeutral},
		{"at lower bound", nd("-0.5"), HighlightHighNegative},
		{"well below", nd("-3"), HighlightHighNegative},
		{"absent", decimal.NullDecimal{}, HighlightNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value, high, low); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.value.Decimal, got, tt.want)
			}
		})
	}
}

func testRecords(ts time.Time) []models.AnalysisRecord {
	return []models.AnalysisRecord{
		{
			Timestamp:            ts,
			Symbol:               "BTC",
			USDTPrice:            nd("1000"),
			TMNPrice:             nd("90000"),
			USDTQuoteVolume:      nd("5000"),
			TMNQuoteVolume:       nd("60000000"),
			BridgedPrice:         decimal.RequireFromString("100000"),
			PriceDifference:      decimal.RequireFromString("10000"),
			PercentageDifference: decimal.RequireFromString("11.1111"),
			GlobalPrice:          nd("1001.5"),
		},
		{
			Timestamp:            ts,
			Symbol:               "ETH",
			USDTPrice:            nd("10"),
			TMNPrice:             nd("1100"),
			BridgedPrice:         decimal.RequireFromString("1000"),
			PriceDifference:      decimal.RequireFromString("-100"),
			PercentageDifference: decimal.RequireFromString("-9.0909"),
		},
		{
			Timestamp:            ts,
			Symbol:               "XRP",
			USDTPrice:            nd("1"),
			TMNPrice:             nd("100"),
			BridgedPrice:         decimal.RequireFromString("100"),
			PriceDifference:      decimal.Zero,
			PercentageDifference: decimal.Zero,
		},
	}
}

func TestExcelWriterWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewExcelWriter(dir, 0.5, -0.5, discardLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	if err := w.Write(context.Background(), testRecords(ts)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	path := w.FileName(ts)
	if !strings.HasPrefix(filepath.Base(path), "arbitrage_") || filepath.Ext(path) != ".xlsx" {
		t.Errorf("Unexpected file name %s", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected exactly one file in report dir, got %d", len(entries))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Cannot open report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("Cannot read rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d", len(rows))
	}
	for i, h := range Headers {
		if rows[0][i] != h {
			t.Errorf("Header %d = %q, want %q", i, rows[0][i], h)
		}
	}
	if rows[1][1] != "BTC" {
		t.Errorf("Expected BTC in row 2, got %q", rows[1][1])
	}

	// ETH has no global data; those cells stay empty.
	if v, _ := f.GetCellValue(SheetName, "P3"); v != "" {
		t.Errorf("Expected empty global price for ETH, got %q", v)
	}
	if v, _ := f.GetCellValue(SheetName, "P2"); v != "1001.5" {
		t.Errorf("Expected global price 1001.5 for BTC, got %q", v)
	}

	positive, _ := f.GetCellStyle(SheetName, "O2")
	negative, _ := f.GetCellStyle(SheetName, "O3")
	neutral, _ := f.GetCellStyle(SheetName, "O4")
	plain, _ := f.GetCellStyle(SheetName, "N2")

	if positive == plain || negative == plain || neutral == plain {
		t.Error("Expected Difference % cells to be highlighted")
	}
	if positive == negative || positive == neutral || negative == neutral {
		t.Errorf("Expected distinct highlight styles, got %d %d %d", positive, negative, neutral)
	}
}

func TestExcelWriterSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	w, err := NewExcelWriter(dir, 0.5, -0.5, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Write(context.Background(), nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no file for an empty cycle, got %d", len(entries))
	}
}

func TestExcelWriterCanceled(t *testing.T) {
	w, err := NewExcelWriter(t.TempDir(), 0.5, -0.5, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Write(ctx, testRecords(time.Now())); err == nil {
		t.Error("Expected an error on canceled context")
	}
}

func TestExcelWriterBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewExcelWriter(filepath.Join(file, "reports"), 0.5, -0.5, discardLogger()); err == nil {
		t.Error("Expected an error when the report dir cannot be created")
	}
}

func TestConsoleOpportunities(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(slog.New(slog.NewTextHandler(&buf, nil)))

	c.Opportunities(nil)
	if !strings.Contains(buf.String(), "No arbitrage opportunities found") {
		t.Errorf("Expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	c.Opportunities([]models.Opportunity{{
		Symbol:               "BTC",
		PercentageDifference: decimal.RequireFromString("11.1111"),
	}})

	out := buf.String()
	if !strings.Contains(out, "symbol=BTC") || !strings.Contains(out, "difference_pct=11.11") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestConsoleRecords(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	c.Records(testRecords(time.Now()))

	out := buf.String()
	for _, want := range []string{"symbol=BTC", "symbol=ETH", "symbol=XRP", "difference_pct=11.11", "records=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q at info level in:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "global_price=1001.5") {
		t.Errorf("Expected global price in output:\n%s", out)
	}
}

func TestExcelWriterSubSecondCycles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewExcelWriter(dir, 0.5, -0.5, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	first := time.Date(2025, 3, 1, 9, 30, 0, 100*int(time.Millisecond), time.UTC)
	second := first.Add(400 * time.Millisecond)

	for _, ts := range []time.Time{first, second} {
		if err := w.Write(context.Background(), testRecords(ts)); err != nil {
			t.Fatalf("Write at %v failed: %v", ts, err)
		}
	}

	if w.FileName(first) == w.FileName(second) {
		t.Fatalf("Expected distinct names, both are %s", w.FileName(first))
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("Expected 2 workbooks for 2 cycles in the same second, got %d", len(entries))
	}
}
