package repositories_test

import (
	"testing"

	"chatorder/internal/models"
	"chatorder/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticMenuRepository_FindByName(t *testing.T) {
	repo, err := repositories.NewStaticMenuRepository(repositories.DefaultMenu())
	require.NoError(t, err)

	item, err := repo.FindByName("  jOLLOF rice ")
	require.NoError(t, err)
	assert.Equal(t, "Jollof Rice", item.Name)
	assert.Equal(t, int64(1500), item.Price)

	_, err = repo.FindByName("pizza")
	assert.ErrorIs(t, err, repositories.ErrMenuItemNotFound)
}

func TestStaticMenuRepository_GetAllKeepsOrder(t *testing.T) {
	repo, err := repositories.NewStaticMenuRepository(repositories.DefaultMenu())
	require.NoError(t, err)

	items, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "Amala with ewedu", items[9].Name)

	items[0].Price = 1
	again, _ := repo.GetAll()
	assert.Equal(t, int64(1500), again[0].Price)
}

func TestStaticMenuRepository_RejectsInvalidCatalog(t *testing.T) {
	cases := map[string][]models.MenuItem{
		"duplicate name": {{ID: "1", Name: "Bread", Price: 1}, {ID: "2", Name: "BREAD", Price: 2}},
		"duplicate id":   {{ID: "1", Name: "Bread", Price: 1}, {ID: "1", Name: "Rice", Price: 2}},
		"empty name":     {{ID: "1", Name: "  ", Price: 1}},
		"negative price": {{ID: "1", Name: "Bread", Price: -5}},
	}

	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := repositories.NewStaticMenuRepository(items)
			assert.Error(t, err)
		})
	}
}
