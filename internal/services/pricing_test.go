package services_test

import (
	"testing"

	"chatorder/internal/models"
	"chatorder/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestPriceCart(t *testing.T) {
	menu := newMenuService(t)

	total, summary := services.PriceCart([]models.CartLine{
		{Name: "Nkwobi", Quantity: 1},
		{Name: "BREAD", Quantity: 3},
	}, menu)

	assert.Equal(t, int64(9500), total)
	assert.Equal(t, "Nkwobi x1 – 6500\nBREAD x3 – 3000", summary)

	total, summary = services.PriceCart(nil, menu)
	assert.Zero(t, total)
	assert.Empty(t, summary)
}

func TestCopyLinesIsIndependent(t *testing.T) {
	lines := []models.CartLine{{Name: "Bread", Quantity: 1}}
	snapshot := services.CopyLines(lines)
	lines[0].Quantity = 5

	assert.Equal(t, 1, snapshot[0].Quantity)
}
