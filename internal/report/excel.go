package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/numeric"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName       = "Arbitrage"
	TimestampLayout = "2006-01-02 15:04:05"

	minColWidth = 8
	maxColWidth = 60
)

// Headers is the fixed 19-column layout of the report.
var Headers = []string{
	"Timestamp",
	"Symbol",
	"USDT Price",
	"USDT Price (TMN)",
	"TMN Price",
	"USDT Bid",
	"TMN Bid",
	"USDT Ask",
	"TMN Ask",
	"USDT Volume",
	"TMN Volume",
	"USDT Quote Volume",
	"TMN Quote Volume",
	"Difference",
	"Difference %",
	"Global Price",
	"Global Volume 24h",
	"Global Market Cap",
	"Global Change 24h %",
}

// percentColumn is the 1-based column of "Difference %".
const percentColumn = 15

var highlightFills = map[Highlight]excelize.Style{
	HighlightHighPositive: {
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
		Font: &excelize.Font{Color: "006100"},
	},
	HighlightHighNegative: {
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
		Font: &excelize.Font{Color: "9C0006"},
	},
	HighlightNeutral: {
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFEB9C"}},
		Font: &excelize.Font{Color: "9C5700"},
	},
}

// ExcelWriter writes one workbook per cycle into Dir.
type ExcelWriter struct {
	dir          string
	highPositive decimal.Decimal
	highNegative decimal.Decimal
	location     *time.Location
	logger       *slog.Logger
}

// NewExcelWriter creates dir if needed. Failing to create it is the one
// report error that is reported at startup rather than per cycle.
func NewExcelWriter(dir string, highPositive, highNegative float64, logger *slog.Logger) (*ExcelWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		loc = time.UTC
	}

	return &ExcelWriter{
		dir:          dir,
		highPositive: decimal.NewFromFloat(highPositive),
		highNegative: decimal.NewFromFloat(highNegative),
		location:     loc,
		logger:       logger.With("sink", "excel"),
	}, nil
}

func (w *ExcelWriter) Name() string { return "excel" }

// FileNameLayout has millisecond resolution; cycles may be shorter than a second.
const FileNameLayout = "20060102_150405.000"

// FileName returns the workbook name for a cycle captured at ts.
func (w *ExcelWriter) FileName(ts time.Time) string {
	return filepath.Join(w.dir, "arbitrage_"+ts.In(w.location).Format(FileNameLayout)+".xlsx")
}

// Write renders records into a new workbook. The file only appears under its
// final name once it is completely written.
func (w *ExcelWriter) Write(ctx context.Context, records []models.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	if err := w.render(f, records); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	path := w.FileName(records[0].Timestamp)
	if err := saveAtomic(f, path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	w.logger.Info("Report written", "file", path, "records", len(records))
	return nil
}

func (w *ExcelWriter) render(f *excelize.File, records []models.AnalysisRecord) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return err
	}

	styles := make(map[Highlight]int, len(highlightFills))
	for h, s := range highlightFills {
		style := s
		id, err := f.NewStyle(&style)
		if err != nil {
			return err
		}
		styles[h] = id
	}

	widths := make([]int, len(Headers))

	for i, h := range Headers {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeaderCell(), headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		for col, v := range w.row(r) {
			if v == nil {
				continue
			}
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
			if n := textWidth(v); n > widths[col] {
				widths[col] = n
			}
		}

		h := Classify(numeric.Valid(r.PercentageDifference), w.highPositive, w.highNegative)
		if id, ok := styles[h]; ok {
			cell, err := excelize.CoordinatesToCellName(percentColumn, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetName, cell, cell, id); err != nil {
				return err
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, float64(clamp(width+2, minColWidth, maxColWidth))); err != nil {
			return err
		}
	}

	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// row returns the cell values of r in Headers order. nil marks an absent value.
func (w *ExcelWriter) row(r models.AnalysisRecord) []any {
	return []any{
		r.Timestamp.In(w.location).Format(TimestampLayout),
		r.Symbol,
		cellValue(r.USDTPrice),
		r.BridgedPrice.InexactFloat64(),
		cellValue(r.TMNPrice),
		cellValue(r.USDTBid),
		cellValue(r.TMNBid),
		cellValue(r.USDTAsk),
		cellValue(r.TMNAsk),
		cellValue(r.USDTVolume),
		cellValue(r.TMNVolume),
		cellValue(r.USDTQuoteVolume),
		cellValue(r.TMNQuoteVolume),
		r.PriceDifference.InexactFloat64(),
		r.PercentageDifference.Round(4).InexactFloat64(),
		cellValue(r.GlobalPrice),
		cellValue(r.GlobalVolume24h),
		cellValue(r.GlobalMarketCap),
		cellValue(r.GlobalPercentChange24h),
	}
}

func cellValue(n decimal.NullDecimal) any {
	if f := numeric.ToFloat(n); f != nil {
		return *f
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetName, cell, v)
}

func lastHeaderCell() string {
	cell, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	return cell
}

func textWidth(v any) int {
	switch val := v.(type) {
	case string:
		return utf8.RuneCountInString(val)
	case float64:
		return len(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return len(fmt.Sprint(val))
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func saveAtomic(f *excelize.File, path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".arbitrage-*.xlsx")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err := f.Write(tmp); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
