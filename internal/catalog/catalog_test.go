package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMenuShape(t *testing.T) {
	c := New()

	categories := c.ListCategories()
	require.Len(t, categories, 4)

	assert.Equal(t, "mains", categories[0].Id)
	assert.Equal(t, 1, categories[0].Number)
	assert.Equal(t, 5, categories[0].ItemCount)
	assert.Equal(t, "desserts", categories[3].Id)
	assert.Equal(t, 4, categories[3].Number)
}

func TestEveryItemHasCategoryBackReference(t *testing.T) {
	c := New()

	for _, summary := range c.ListCategories() {
		items, ok := c.ListItemsIn(summary.Id)
		require.True(t, ok)
		for _, item := range items {
			assert.Equal(t, summary.Id, item.Category, "item %s", item.Id)
			assert.Positive(t, item.Price, "item %s", item.Id)
			assert.NotEmpty(t, item.Description, "item %s", item.Id)
		}
	}
}

func TestResolveSelection(t *testing.T) {
	c := New()

	item, ok := c.ResolveSelection("mains", 1)
	require.True(t, ok)
	assert.Equal(t, "M001", item.Id)
	assert.Equal(t, "Jollof Rice with Chicken", item.Name)
	assert.Equal(t, int64(2500), item.Price)

	_, ok = c.ResolveSelection("mains", 0)
	assert.False(t, ok)
	_, ok = c.ResolveSelection("mains", 99)
	assert.False(t, ok)
	_, ok = c.ResolveSelection("no-such-category", 1)
	assert.False(t, ok)
}

func TestFindItemById(t *testing.T) {
	c := New()

	item, ok := c.FindItemById("D004")
	require.True(t, ok)
	assert.Equal(t, "Bottled Water", item.Name)
	assert.Equal(t, "drinks", item.Category)

	_, ok = c.FindItemById("X999")
	assert.False(t, ok)
}

func TestRenderMainMenu(t *testing.T) {
	menu := New().RenderMainMenu()

	assert.Contains(t, menu, "🍽️ *Welcome to Our Restaurant!*")
	assert.Contains(t, menu, "1. Main Dishes (5 items)")
	assert.Contains(t, menu, "97 - View current order")
	assert.Contains(t, menu, "98 - View order history")
	assert.Contains(t, menu, "99 - Checkout order")
	assert.Contains(t, menu, "0 - Cancel current order")
}

func TestRenderCategoryMenu(t *testing.T) {
	c := New()

	menu, ok := c.RenderCategoryMenu("drinks")
	require.True(t, ok)
	assert.Contains(t, menu, "🍽️ *Beverages*")
	assert.Contains(t, menu, "4. Bottled Water - ₦200")
	assert.Contains(t, menu, "Select item number (1-6)")
	assert.Contains(t, menu, "Or type 'back' to return to main menu")

	_, ok = c.RenderCategoryMenu("no-such-category")
	assert.False(t, ok)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₦0", FormatPrice(0))
	assert.Equal(t, "₦250", FormatPrice(250))
	assert.Equal(t, "₦2,500", FormatPrice(2500))
	assert.Equal(t, "₦1,234,567", FormatPrice(1234567))
	assert.Equal(t, "-1,000", FormatAmount(-1000))
}
