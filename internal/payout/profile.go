package payout

// amountStyle determines how a statement writes numbers.
type amountStyle int

const (
	// amountUS means "1,234.56".
	amountUS amountStyle = iota
	// amountEuropean means "1.234,56".
	amountEuropean
)

// Profile describes the column layout and formats of one statement format.
// Supporting a new bank is adding a Profile to the profiles slice.
type Profile struct {
	Name        string
	RefCol      string
	AmountCol   string
	DateCol     string
	NoteCol     string // optional: empty means the format has no note column
	DateFormat  string
	AmountStyle amountStyle
}

// requiredCols returns the headers that must all be present for this profile
// to match.
func (p Profile) requiredCols() []string {
	return []string{p.RefCol, p.AmountCol, p.DateCol}
}

// profiles is the ordered list of statement formats to try during
// auto-detection. More specific header sets come first.
var profiles = []Profile{
	{
		Name:        "banreservas",
		RefCol:      "Referencia",
		AmountCol:   "Monto",
		DateCol:     "Fecha",
		NoteCol:     "Concepto",
		DateFormat:  "02/01/2006",
		AmountStyle: amountUS,
	},
	{
		Name:        "popular",
		RefCol:      "No. Referencia",
		AmountCol:   "Importe",
		DateCol:     "Fecha valor",
		DateFormat:  "02-01-2006",
		AmountStyle: amountEuropean,
	},
	{
		Name:        "generic",
		RefCol:      "reference",
		AmountCol:   "amount",
		DateCol:     "date",
		NoteCol:     "note",
		DateFormat:  "2006-01-02",
		AmountStyle: amountUS,
	},
}
