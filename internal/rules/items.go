package rules

import (
	"strings"

	"github.com/akozyrev/invoice-scanner/internal/extract"
	"github.com/akozyrev/invoice-scanner/internal/invoice"
)

// columnRole names a canonical line-item column.
type columnRole int

const (
	roleName columnRole = iota
	roleQty
	rolePrice
	roleSum
	roleUnit
)

// roleKeywords maps header substrings to roles. Checked in declaration
// order; «цен» must run before «ед» so that a "Цена за ед." header lands on
// the price role, not the unit role.
var roleKeywords = []struct {
	role columnRole
	keys []string
}{
	{roleName, []string{"наим", "товар"}},
	{roleQty, []string{"кол"}},
	{rolePrice, []string{"цен"}},
	{roleSum, []string{"сум", "стоим"}},
	{roleUnit, []string{"ед"}},
}

// ordinalMarkers mark the numbering column that distinguishes a line-item
// table from layout tables (requisites, signatures).
var ordinalMarkers = []string{"№", "п/п"}

// ExtractItems maps raw table grids to line items, keeping page-then-row
// order. Tables whose header row lacks a numbering marker are skipped
// entirely: without it the grid is assumed not to be the goods table.
func ExtractItems(pages []extract.PageTables) []invoice.LineItem {
	var items []invoice.LineItem
	for _, pt := range pages {
		for _, grid := range pt.Tables {
			items = append(items, itemsFromGrid(grid)...)
		}
	}
	return items
}

func itemsFromGrid(grid extract.Grid) []invoice.LineItem {
	if len(grid) < 2 {
		return nil
	}
	header := grid[0]
	if !hasOrdinalColumn(header) {
		return nil
	}
	roles := mapColumns(header)
	if len(roles) == 0 {
		return nil
	}
	var out []invoice.LineItem
	for _, row := range grid[1:] {
		if item, ok := itemFromRow(row, roles); ok {
			out = append(out, item)
		}
	}
	return out
}

func hasOrdinalColumn(header []string) bool {
	for _, cell := range header {
		low := strings.ToLower(cell)
		for _, marker := range ordinalMarkers {
			if strings.Contains(low, marker) {
				return true
			}
		}
	}
	return false
}

// mapColumns matches header cells against the role keyword sets,
// case-insensitively. The first column claiming a role keeps it.
func mapColumns(header []string) map[int]columnRole {
	roles := make(map[int]columnRole)
	taken := make(map[columnRole]bool)
	for i, cell := range header {
		low := strings.ToLower(cell)
		for _, rk := range roleKeywords {
			if taken[rk.role] {
				continue
			}
			if containsAny(low, rk.keys) {
				roles[i] = rk.role
				taken[rk.role] = true
				break
			}
		}
	}
	return roles
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// itemFromRow populates only the roles mapped for this table; unmapped
// columns are ignored and empty cells stay nil. Rows with no usable cell
// at all are dropped.
func itemFromRow(row []string, roles map[int]columnRole) (invoice.LineItem, bool) {
	var item invoice.LineItem
	found := false
	for i, role := range roles {
		if i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		val := v
		switch role {
		case roleName:
			item.Name = &val
		case roleQty:
			item.Qty = &val
		case roleUnit:
			item.Unit = &val
		case rolePrice:
			item.Price = &val
		case roleSum:
			item.Total = &val
		}
		found = true
	}
	return item, found
}
