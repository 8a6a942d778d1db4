package payout

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	enc "github.com/andresgp/comcrm/internal/encoding"
)

// Parser reads payout statement CSVs and produces rows ready to apply as
// payments. The statement format is auto-detected by matching column headers
// against known bank profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, err := enc.NormalizeUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	rows, err := readCSV(string(data))
	if err != nil {
		return nil, err
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching statement format: expected banreservas, popular, or generic columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// readCSV parses the statement, sniffing the separator since bank exports
// disagree on it. Semicolon wins whenever it outnumbers commas over the whole
// file; thousands separators inside amounts keep commas from ever dominating
// a semicolon file.
func readCSV(data string) ([][]string, error) {
	sep := ','
	if strings.Count(data, ";") > strings.Count(data, ",") {
		sep = ';'
	}

	reader := csv.NewReader(strings.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header matching a known profile. Returns
// the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts payout rows using the matched profile. Rows without a
// parseable date are skipped (footers, totals); a bad reference or amount on
// a dated row is an error, since silently dropping a disbursement is worse
// than rejecting the file.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Row, error) {
	refIdx := cols[p.RefCol]
	amountIdx := cols[p.AmountCol]
	dateIdx := cols[p.DateCol]

	noteIdx := -1
	if p.NoteCol != "" {
		if i, ok := cols[p.NoteCol]; ok {
			noteIdx = i
		}
	}

	var out []Row

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, counting the header

		date, ok := parseDate(row, dateIdx, p.DateFormat)
		if !ok {
			continue
		}

		ref := cellValue(row, refIdx)

		commissionID, err := uuid.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad commission reference %q", rowNum, ref)
		}

		amount, err := parseStyledAmount(cellValue(row, amountIdx), p.AmountStyle)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad amount: %w", rowNum, err)
		}

		out = append(out, Row{
			CommissionID: commissionID,
			Amount:       amount,
			Date:         date,
			Note:         cellValue(row, noteIdx),
		})
	}

	return out, nil
}

// parseDate returns false for empty or unparseable cells (footer rows, etc).
func parseDate(row []string, idx int, format string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(format, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseStyledAmount parses "1,234.56" or "1.234,56" depending on style,
// rounding to two decimals.
func parseStyledAmount(s string, style amountStyle) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	switch style {
	case amountUS:
		clean = strings.ReplaceAll(clean, ",", "")
	case amountEuropean:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
