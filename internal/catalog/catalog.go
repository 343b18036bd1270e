package catalog

import (
	"fmt"
	"strings"
)

// Item is a single priced menu entry. Price is in naira (major units);
// conversion to kobo happens only at the payment boundary.
type Item struct {
	Id          string
	Name        string
	Price       int64
	Description string
	Category    string
}

type Category struct {
	Id    string
	Name  string
	Items []Item
}

// CategorySummary is what the main menu shows per category. Number is the
// 1-based on-screen position and stays stable for the process lifetime.
type CategorySummary struct {
	Id        string
	Number    int
	Name      string
	ItemCount int
}

// NumberedItem is an Item with its 1-based position inside its category.
type NumberedItem struct {
	Item
	Number int
}

// Catalog is the immutable menu hierarchy. All methods are read-only.
type Catalog struct {
	categories []Category
	byId       map[string]*Category
}

func New() *Catalog {
	return newFromCategories(defaultMenu)
}

// NewFromCategories builds a catalog from explicit data. Used by tests.
func NewFromCategories(categories []Category) *Catalog {
	return newFromCategories(categories)
}

func newFromCategories(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byId:       make(map[string]*Category, len(categories)),
	}
	for i := range c.categories {
		cat := &c.categories[i]
		for j := range cat.Items {
			cat.Items[j].Category = cat.Id
		}
		c.byId[cat.Id] = cat
	}
	return c
}

func (c *Catalog) ListCategories() []CategorySummary {
	out := make([]CategorySummary, 0, len(c.categories))
	for i, cat := range c.categories {
		out = append(out, CategorySummary{
			Id:        cat.Id,
			Number:    i + 1,
			Name:      cat.Name,
			ItemCount: len(cat.Items),
		})
	}
	return out
}

// ListItemsIn returns the numbered items of a category, or false if the
// category id is unknown.
func (c *Catalog) ListItemsIn(categoryId string) ([]NumberedItem, bool) {
	cat, ok := c.byId[categoryId]
	if !ok {
		return nil, false
	}
	out := make([]NumberedItem, 0, len(cat.Items))
	for i, item := range cat.Items {
		out = append(out, NumberedItem{Item: item, Number: i + 1})
	}
	return out, true
}

// ResolveSelection converts the user's numeric choice within a category into
// a concrete item. The returned Item is a value copy; callers may snapshot it
// freely without holding a reference into the catalog.
func (c *Catalog) ResolveSelection(categoryId string, displayNumber int) (Item, bool) {
	cat, ok := c.byId[categoryId]
	if !ok {
		return Item{}, false
	}
	if displayNumber < 1 || displayNumber > len(cat.Items) {
		return Item{}, false
	}
	return cat.Items[displayNumber-1], true
}

func (c *Catalog) FindItemById(itemId string) (Item, bool) {
	for _, cat := range c.categories {
		for _, item := range cat.Items {
			if item.Id == itemId {
				return item, true
			}
		}
	}
	return Item{}, false
}

// RenderMainMenu produces the exact welcome block the chat client shows.
func (c *Catalog) RenderMainMenu() string {
	var b strings.Builder
	b.WriteString("🍽️ *Welcome to Our Restaurant!*\n\nSelect a category:\n\n")
	for _, cat := range c.ListCategories() {
		fmt.Fprintf(&b, "%d. %s (%d items)\n", cat.Number, cat.Name, cat.ItemCount)
	}
	b.WriteString("\n📋 *Other Options:*\n")
	b.WriteString("97 - View current order\n")
	b.WriteString("98 - View order history\n")
	b.WriteString("99 - Checkout order\n")
	b.WriteString("0 - Cancel current order")
	return b.String()
}

// RenderCategoryMenu produces the item listing for one category, or false if
// the category id is unknown.
func (c *Catalog) RenderCategoryMenu(categoryId string) (string, bool) {
	cat, ok := c.byId[categoryId]
	if !ok {
		return "", false
	}
	items, _ := c.ListItemsIn(categoryId)

	var b strings.Builder
	fmt.Fprintf(&b, "🍽️ *%s*\n\n", cat.Name)
	for _, item := range items {
		fmt.Fprintf(&b, "%d. %s - %s\n", item.Number, item.Name, FormatPrice(item.Price))
		fmt.Fprintf(&b, "   %s\n\n", item.Description)
	}
	fmt.Fprintf(&b, "Select item number (1-%d)\n", len(items))
	b.WriteString("Or type 'back' to return to main menu")
	return b.String(), true
}

// FormatPrice renders a naira amount with thousands separators, e.g. ₦2,500.
func FormatPrice(amount int64) string {
	return "₦" + FormatAmount(amount)
}

func FormatAmount(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
