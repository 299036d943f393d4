package command

// MenuCreatePayload carries the fields for menu.create.
type MenuCreatePayload struct {
	Name           string
	Description    string
	Category       string
	BasePrice      int64
	PricePerPerson int64
	MinGuests      int
	MaxGuests      int
}

// MenuUpdatePayload carries the replacement fields for menu.update.
type MenuUpdatePayload struct {
	Name           string
	Description    string
	Category       string
	BasePrice      int64
	PricePerPerson int64
	MinGuests      int
	MaxGuests      int
}

// MenuAddDishPayload links a dish into a menu.
type MenuAddDishPayload struct {
	DishID string
	Course string
}

// MenuRemoveDishPayload unlinks a dish from a menu.
type MenuRemoveDishPayload struct {
	DishID string
}

// MenuReorderDishesPayload replaces the ordering of every dish in a menu.
// DishIDs must cover the full membership of the menu.
type MenuReorderDishesPayload struct {
	DishIDs []string
}

// DishCreatePayload carries the fields for dish.create.
type DishCreatePayload struct {
	Name        string
	Description string
	Category    string
	Price       int64
	Cost        int64
}

// DishUpdatePayload carries the replacement fields for dish.update.
type DishUpdatePayload struct {
	Name        string
	Description string
	Category    string
	Price       int64
	Cost        int64
	Active      bool
}

// PrepListItemSpec describes one item created alongside a prep list.
type PrepListItemSpec struct {
	StationName    string
	IngredientName string
	Quantity       float64
	Unit           string
}

// PrepListCreatePayload carries the fields for prep_list.create.
type PrepListCreatePayload struct {
	EventID         string
	Name            string
	BatchMultiplier float64
	Notes           string
	Items           []PrepListItemSpec
}

// PrepListUpdatePayload carries the replacement fields for prep_list.update.
// A zero BatchMultiplier or empty Status leaves the current value in place.
type PrepListUpdatePayload struct {
	Name            string
	BatchMultiplier float64
	Status          string
	Notes           string
}

// PrepListReorderItemsPayload replaces the ordering of every item in a
// prep list. ItemIDs must cover the full membership of the list.
type PrepListReorderItemsPayload struct {
	ItemIDs []string
}
