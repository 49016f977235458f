package category

import (
	"sort"
	"sync/atomic"
)

// MinMultiplier is the floor applied to demand/supply multipliers at the
// admin-update boundary. The exchange calculator divides by supply, so a
// zero or negative multiplier must never reach it.
const MinMultiplier = 0.5

// Class marks whether a category mostly serves businesses or consumers.
type Class string

const (
	ClassB2B Class = "b2b"
	ClassB2C Class = "b2c"
)

// Category is static reference data for one service category.
type Category struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	BaseRate         float64  `json:"base_rate"` // credits per hour
	DemandMultiplier float64  `json:"demand_multiplier"`
	SupplyMultiplier float64  `json:"supply_multiplier"`
	Popular          bool     `json:"popular"`
	TradesWellWith   []string `json:"trades_well_with"`
	Class            Class    `json:"class"`
}

// Table is an immutable snapshot of the category rate table. Updates
// produce a new Table; readers never see a half-updated one.
type Table struct {
	categories map[string]Category
}

var current atomic.Pointer[Table]

// Init installs the default table as the process-wide snapshot.
func Init() {
	current.Store(Default())
}

// Current returns the active table snapshot.
func Current() *Table {
	t := current.Load()
	if t == nil {
		t = Default()
		current.Store(t)
	}
	return t
}

// swap installs a new snapshot. Single-writer: only the admin update
// handler calls this.
func swap(t *Table) {
	current.Store(t)
}

// NewTable builds a table from a category list. Multipliers are clamped
// here so bad seed data cannot reach the calculator.
func NewTable(categories []Category) *Table {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		if c.DemandMultiplier < MinMultiplier {
			c.DemandMultiplier = MinMultiplier
		}
		if c.SupplyMultiplier < MinMultiplier {
			c.SupplyMultiplier = MinMultiplier
		}
		m[c.ID] = c
	}
	return &Table{categories: m}
}

// Get looks up a category by id.
func (t *Table) Get(id string) (Category, bool) {
	c, ok := t.categories[id]
	return c, ok
}

// All returns every category sorted by id.
func (t *Table) All() []Category {
	out := make([]Category, 0, len(t.categories))
	for _, c := range t.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Complementary reports whether two categories commonly trade with each
// other (in either direction).
func (t *Table) Complementary(a, b string) bool {
	ca, okA := t.categories[a]
	cb, okB := t.categories[b]
	if !okA || !okB {
		return false
	}
	for _, id := range ca.TradesWellWith {
		if id == b {
			return true
		}
	}
	for _, id := range cb.TradesWellWith {
		if id == a {
			return true
		}
	}
	return false
}

// WithRates returns a copy of the table with one category's multipliers
// replaced. Multipliers below MinMultiplier are clamped. Returns false if
// the category does not exist.
func (t *Table) WithRates(id string, demand, supply float64) (*Table, bool) {
	c, ok := t.categories[id]
	if !ok {
		return t, false
	}
	if demand < MinMultiplier {
		demand = MinMultiplier
	}
	if supply < MinMultiplier {
		supply = MinMultiplier
	}
	m := make(map[string]Category, len(t.categories))
	for k, v := range t.categories {
		m[k] = v
	}
	c.DemandMultiplier = demand
	c.SupplyMultiplier = supply
	m[id] = c
	return &Table{categories: m}, true
}

// Default returns the built-in Nigerian service category table.
func Default() *Table {
	return NewTable([]Category{
		{ID: "legal", Name: "Legal Services", BaseRate: 10, DemandMultiplier: 1.5, SupplyMultiplier: 0.8, Popular: true, TradesWellWith: []string{"tech", "accounting"}, Class: ClassB2B},
		{ID: "tech", Name: "Tech & Software", BaseRate: 8, DemandMultiplier: 1.4, SupplyMultiplier: 1.0, Popular: true, TradesWellWith: []string{"legal", "marketing", "media"}, Class: ClassB2B},
		{ID: "creative", Name: "Creative & Design", BaseRate: 6, DemandMultiplier: 1.2, SupplyMultiplier: 1.1, Popular: true, TradesWellWith: []string{"marketing", "media", "events"}, Class: ClassB2B},
		{ID: "marketing", Name: "Marketing & Sales", BaseRate: 7, DemandMultiplier: 1.3, SupplyMultiplier: 1.0, Popular: true, TradesWellWith: []string{"tech", "creative"}, Class: ClassB2B},
		{ID: "accounting", Name: "Accounting & Bookkeeping", BaseRate: 8, DemandMultiplier: 1.2, SupplyMultiplier: 0.9, Popular: false, TradesWellWith: []string{"legal"}, Class: ClassB2B},
		{ID: "media", Name: "Media & Content", BaseRate: 6, DemandMultiplier: 1.1, SupplyMultiplier: 1.0, Popular: false, TradesWellWith: []string{"tech", "creative"}, Class: ClassB2B},
		{ID: "logistics", Name: "Logistics & Delivery", BaseRate: 5, DemandMultiplier: 1.3, SupplyMultiplier: 1.2, Popular: true, TradesWellWith: []string{"catering", "events"}, Class: ClassB2B},
		{ID: "tailoring", Name: "Tailoring & Fashion", BaseRate: 4, DemandMultiplier: 1.2, SupplyMultiplier: 1.3, Popular: true, TradesWellWith: []string{"events", "beauty"}, Class: ClassB2C},
		{ID: "catering", Name: "Catering & Food", BaseRate: 5, DemandMultiplier: 1.4, SupplyMultiplier: 1.2, Popular: true, TradesWellWith: []string{"events", "logistics"}, Class: ClassB2C},
		{ID: "photography", Name: "Photography & Video", BaseRate: 6, DemandMultiplier: 1.2, SupplyMultiplier: 1.1, Popular: false, TradesWellWith: []string{"events", "media"}, Class: ClassB2C},
		{ID: "tutoring", Name: "Tutoring & Training", BaseRate: 5, DemandMultiplier: 1.1, SupplyMultiplier: 1.0, Popular: false, TradesWellWith: []string{"tech"}, Class: ClassB2C},
		{ID: "beauty", Name: "Beauty & Grooming", BaseRate: 4, DemandMultiplier: 1.1, SupplyMultiplier: 1.2, Popular: false, TradesWellWith: []string{"tailoring", "events"}, Class: ClassB2C},
		{ID: "events", Name: "Event Planning", BaseRate: 6, DemandMultiplier: 1.3, SupplyMultiplier: 1.0, Popular: true, TradesWellWith: []string{"catering", "photography", "creative"}, Class: ClassB2C},
		{ID: "cleaning", Name: "Cleaning Services", BaseRate: 3, DemandMultiplier: 1.1, SupplyMultiplier: 1.3, Popular: false, TradesWellWith: []string{"logistics"}, Class: ClassB2C},
		{ID: "repairs", Name: "Repairs & Maintenance", BaseRate: 4, DemandMultiplier: 1.2, SupplyMultiplier: 1.1, Popular: false, TradesWellWith: []string{"cleaning"}, Class: ClassB2C},
		{ID: "wellness", Name: "Health & Wellness", BaseRate: 5, DemandMultiplier: 1.0, SupplyMultiplier: 1.0, Popular: false, TradesWellWith: []string{"beauty"}, Class: ClassB2C},
	})
}
