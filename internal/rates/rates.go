package rates

// Rate is a single work type and its unit price
type Rate struct {
	WorkType string
	Price    float64
}

// DefaultRates is the workshop tariff in UZS per unit.
// Units: Loyiha, Sborka, Ustanovka per m2; Kesish per sheet; Kromka per metre; Teshib berish per part.
var DefaultRates = []Rate{
	{WorkType: "Loyiha", Price: 5000},
	{WorkType: "Kesish", Price: 2000},
	{WorkType: "Kromka", Price: 1500},
	{WorkType: "Teshib berish", Price: 1000},
	{WorkType: "Sborka", Price: 4000},
	{WorkType: "Ustanovka", Price: 5000},
}

// Table maps work types to unit rates, preserving insertion order
type Table struct {
	order  []string
	prices map[string]float64
}

// NewTable builds a table from rates. A repeated work type keeps its first
// position and takes the last price.
func NewTable(rates []Rate) *Table {
	t := &Table{prices: make(map[string]float64, len(rates))}
	for _, r := range rates {
		if _, ok := t.prices[r.WorkType]; !ok {
			t.order = append(t.order, r.WorkType)
		}
		t.prices[r.WorkType] = r.Price
	}
	return t
}

// Default returns the table built from DefaultRates
func Default() *Table {
	return NewTable(DefaultRates)
}

// RateOf returns the unit rate for a work type, or 0 when the type is unknown
func (t *Table) RateOf(workType string) float64 {
	return t.prices[workType]
}

// Has reports whether the work type is in the table
func (t *Table) Has(workType string) bool {
	_, ok := t.prices[workType]
	return ok
}

// WorkTypes returns the work types in insertion order. The result is a fresh copy.
func (t *Table) WorkTypes() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
