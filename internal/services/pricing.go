package services

import (
	"fmt"
	"strings"

	"chatorder/internal/models"
)

// FormatLine renders a cart line as "<name> x<quantity> – <itemTotal>".
func FormatLine(line models.CartLine, itemTotal int64) string {
	return fmt.Sprintf("%s x%d – %d", line.Name, line.Quantity, itemTotal)
}

// PriceCart totals lines against the menu and renders one summary line per
// entry. Names missing from the menu are priced at 0.
func PriceCart(lines []models.CartLine, menu *MenuService) (int64, string) {
	var total int64
	summary := make([]string, 0, len(lines))

	for _, line := range lines {
		itemTotal := menu.PriceOf(line.Name) * int64(line.Quantity)
		total += itemTotal
		summary = append(summary, FormatLine(line, itemTotal))
	}
	return total, strings.Join(summary, "\n")
}

// CopyLines returns a snapshot of lines that shares no memory with it.
func CopyLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}

// addLine increments the line matching item or appends a new one.
func addLine(lines []models.CartLine, item models.MenuItem) []models.CartLine {
	for i := range lines {
		if strings.EqualFold(lines[i].Name, item.Name) {
			lines[i].Quantity++
			return lines
		}
	}
	return append(lines, models.CartLine{Name: item.Name, Quantity: 1})
}
