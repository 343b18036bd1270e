package catalog

// Static restaurant menu. Loaded once at process start; the chat flow only
// ever reads from it, so plain package data is enough.
var defaultMenu = []Category{
	{
		Id:   "mains",
		Name: "Main Dishes",
		Items: []Item{
			{Id: "M001", Name: "Jollof Rice with Chicken", Price: 2500, Description: "Nigerian jollof rice served with grilled chicken"},
			{Id: "M002", Name: "Fried Rice with Beef", Price: 2800, Description: "Delicious fried rice with tender beef"},
			{Id: "M003", Name: "Pounded Yam with Egusi Soup", Price: 3000, Description: "Traditional pounded yam with rich egusi soup"},
			{Id: "M004", Name: "Rice and Beans with Fish", Price: 2200, Description: "Local rice and beans served with fried fish"},
			{Id: "M005", Name: "Amala with Gbegiri and Ewedu", Price: 2000, Description: "Amala served with gbegiri and ewedu soup"},
		},
	},
	{
		Id:   "snacks",
		Name: "Snacks & Light Meals",
		Items: []Item{
			{Id: "S001", Name: "Meat Pie", Price: 500, Description: "Freshly baked meat pie with seasoned beef"},
			{Id: "S002", Name: "Sausage Roll", Price: 400, Description: "Crispy pastry filled with spiced sausage"},
			{Id: "S003", Name: "Chicken Pie", Price: 600, Description: "Flaky pastry with chicken and vegetables"},
			{Id: "S004", Name: "Buns (Burger)", Price: 800, Description: "Nigerian-style burger with beef patty"},
			{Id: "S005", Name: "Gala (Sausage)", Price: 250, Description: "Popular Nigerian sausage snack"},
		},
	},
	{
		Id:   "drinks",
		Name: "Beverages",
		Items: []Item{
			{Id: "D001", Name: "Coca Cola", Price: 300, Description: "Cold coca cola drink"},
			{Id: "D002", Name: "Sprite", Price: 300, Description: "Refreshing lemon-lime soda"},
			{Id: "D003", Name: "Fanta Orange", Price: 300, Description: "Orange flavored soda drink"},
			{Id: "D004", Name: "Bottled Water", Price: 200, Description: "Pure bottled water"},
			{Id: "D005", Name: "Fresh Orange Juice", Price: 800, Description: "Freshly squeezed orange juice"},
			{Id: "D006", Name: "Zobo Drink", Price: 500, Description: "Nigerian hibiscus drink with spices"},
		},
	},
	{
		Id:   "desserts",
		Name: "Desserts",
		Items: []Item{
			{Id: "DS001", Name: "Chocolate Cake", Price: 1200, Description: "Rich chocolate cake slice"},
			{Id: "DS002", Name: "Ice Cream", Price: 800, Description: "Vanilla ice cream scoop"},
			{Id: "DS003", Name: "Fruit Salad", Price: 1000, Description: "Fresh mixed fruit salad"},
			{Id: "DS004", Name: "Puff Puff", Price: 100, Description: "Traditional Nigerian sweet snack (per piece)"},
		},
	},
}
