// Package valuation converts decoded save inventory into a credit value
// using a closed, build-time price table.
package valuation

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/uid"
)

// Item is one priced item. UnitPrice is in credits and always positive.
type Item struct {
	ID        uid.UID
	Name      string
	UnitPrice uint64
}

// Entry is the YAML form of a priced item, as it appears in config.
type Entry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price uint64 `yaml:"price"`
}

// Validate checks one price entry.
func (e Entry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, validation.By(func(v any) error {
			_, err := uid.Parse(v.(string))
			return err
		})),
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.Price, validation.Required, validation.Min(uint64(1))),
	)
}

// PriceTable maps identifiers to priced items. The table is closed:
// identifiers absent from it are worth nothing. Declaration order is kept
// for stable line-item output.
type PriceTable struct {
	items []Item
	index map[uid.UID]int
}

// NewPriceTable builds a table from items in declaration order.
func NewPriceTable(items []Item) (*PriceTable, error) {
	t := &PriceTable{
		items: append([]Item(nil), items...),
		index: make(map[uid.UID]int, len(items)),
	}
	for i, it := range t.items {
		if _, dup := t.index[it.ID]; dup {
			return nil, fmt.Errorf("valuation: duplicate price entry %s", it.ID)
		}
		t.index[it.ID] = i
	}
	return t, nil
}

// TableFromEntries validates and converts YAML entries into a PriceTable.
func TableFromEntries(entries []Entry) (*PriceTable, error) {
	items := make([]Item, 0, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("valuation: price entry %d: %w", i, err)
		}
		id, err := uid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("valuation: price entry %d: %w", i, err)
		}
		items = append(items, Item{ID: id, Name: e.Name, UnitPrice: e.Price})
	}
	return NewPriceTable(items)
}

// Lookup returns the priced item for id, if the table contains it.
func (t *PriceTable) Lookup(id uid.UID) (Item, bool) {
	i, ok := t.index[id]
	if !ok {
		return Item{}, false
	}
	return t.items[i], true
}

// Items returns the priced items in declaration order.
func (t *PriceTable) Items() []Item {
	return append([]Item(nil), t.items...)
}

// Len returns the number of priced items.
func (t *PriceTable) Len() int {
	return len(t.items)
}
