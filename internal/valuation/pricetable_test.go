package valuation

import (
	"testing"
)

func TestTableFromEntries(t *testing.T) {
	table, err := TableFromEntries([]Entry{
		{ID: itemC.String(), Name: "Warehouse Key", Price: 1000},
		{ID: itemA.String(), Name: "Component Kit", Price: 500},
	})
	if err != nil {
		t.Fatalf("TableFromEntries: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}

	// Declaration order, not identifier order.
	items := table.Items()
	if items[0].ID != itemC || items[1].ID != itemA {
		t.Errorf("order = [%s %s]", items[0].ID, items[1].ID)
	}

	it, ok := table.Lookup(itemA)
	if !ok || it.UnitPrice != 500 {
		t.Errorf("Lookup = %+v, %v", it, ok)
	}
	if _, ok := table.Lookup(junk); ok {
		t.Errorf("Lookup of unpriced id should miss")
	}
}

func TestTableFromEntries_BadIdentifier(t *testing.T) {
	_, err := TableFromEntries([]Entry{{ID: "not-a-uuid", Name: "X", Price: 1}})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestTableFromEntries_ZeroPrice(t *testing.T) {
	_, err := TableFromEntries([]Entry{{ID: itemA.String(), Name: "X", Price: 0}})
	if err == nil {
		t.Fatal("expected validation error for zero price")
	}
}

func TestTableFromEntries_MissingName(t *testing.T) {
	_, err := TableFromEntries([]Entry{{ID: itemA.String(), Price: 5}})
	if err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestNewPriceTable_Duplicate(t *testing.T) {
	_, err := NewPriceTable([]Item{
		{ID: itemA, Name: "A", UnitPrice: 1},
		{ID: itemA, Name: "A again", UnitPrice: 2},
	})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestEntryValidate_StrictIdentifierForm(t *testing.T) {
	e := Entry{ID: "{8d3b98de-c981-4f05-abfe-d22ee4781d33}", Name: "Braced", Price: 1}
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for braced identifier")
	}
}
