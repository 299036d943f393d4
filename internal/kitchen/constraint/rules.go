package constraint

import (
	"fmt"

	"github.com/harvestline/kitchenops/internal/kitchen/command"
)

// DefaultRules returns the shipped rule catalog. Ordering here is outcome
// ordering.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "menu.guest_range_invalid",
			Severity: SeverityBlock,
			Check:    menuGuestRangeInvalid,
		},
		{
			ID:       "menu.activation_requires_dishes",
			Severity: SeverityBlock,
			Check:    menuActivationRequiresDishes,
		},
		{
			ID:       "menu.price_decrease",
			Severity: SeverityWarn,
			Check:    menuPriceDecrease,
		},
		{
			ID:       "menu.guest_range_increase",
			Severity: SeverityWarn,
			Check:    menuGuestRangeIncrease,
		},
		{
			ID:       "menu.base_price_missing",
			Severity: SeverityInfo,
			Check:    menuBasePriceMissing,
		},
		{
			ID:       "dish.price_below_cost",
			Severity: SeverityBlock,
			Check:    dishPriceBelowCost,
		},
		{
			ID:       "dish.price_decrease",
			Severity: SeverityWarn,
			Check:    dishPriceDecrease,
		},
		{
			ID:       "dish.margin_below_threshold",
			Severity: SeverityWarn,
			Check:    dishMarginBelowThreshold,
		},
		{
			ID:       "prep_list.multiplier_excessive",
			Severity: SeverityBlock,
			Check:    prepListMultiplierExcessive,
		},
		{
			ID:       "prep_list.multiplier_spike",
			Severity: SeverityWarn,
			Check:    prepListMultiplierSpike,
		},
		{
			ID:       "prep_list.name_change",
			Severity: SeverityWarn,
			Check:    prepListNameChange,
		},
	}
}

func menuGuestRange(cmd command.Command) (minGuests, maxGuests int, ok bool) {
	switch payload := cmd.Payload.(type) {
	case command.MenuCreatePayload:
		return payload.MinGuests, payload.MaxGuests, true
	case command.MenuUpdatePayload:
		return payload.MinGuests, payload.MaxGuests, true
	default:
		return 0, 0, false
	}
}

func menuPrices(cmd command.Command) (basePrice, pricePerPerson int64, ok bool) {
	switch payload := cmd.Payload.(type) {
	case command.MenuCreatePayload:
		return payload.BasePrice, payload.PricePerPerson, true
	case command.MenuUpdatePayload:
		return payload.BasePrice, payload.PricePerPerson, true
	default:
		return 0, 0, false
	}
}

func menuGuestRangeInvalid(cmd command.Command, _ State) (bool, string) {
	minGuests, maxGuests, ok := menuGuestRange(cmd)
	if !ok || maxGuests <= 0 {
		return false, ""
	}
	if minGuests > maxGuests {
		return true, fmt.Sprintf("minimum guests (%d) exceeds maximum guests (%d)", minGuests, maxGuests)
	}
	return false, ""
}

func menuActivationRequiresDishes(cmd command.Command, state State) (bool, string) {
	if cmd.Type != command.TypeMenuActivate {
		return false, ""
	}
	if state.MenuDishCount == 0 {
		return true, "menu has no dishes and cannot be activated"
	}
	return false, ""
}

func menuPriceDecrease(cmd command.Command, state State) (bool, string) {
	if cmd.Type != command.TypeMenuUpdate || state.Menu == nil {
		return false, ""
	}
	payload, ok := cmd.Payload.(command.MenuUpdatePayload)
	if !ok {
		return false, ""
	}
	if payload.PricePerPerson < state.Menu.PricePerPerson {
		return true, fmt.Sprintf("price per person drops from %d to %d cents", state.Menu.PricePerPerson, payload.PricePerPerson)
	}
	return false, ""
}

func menuGuestRangeIncrease(cmd command.Command, state State) (bool, string) {
	if cmd.Type != command.TypeMenuUpdate || state.Menu == nil || state.Menu.MaxGuests <= 0 {
		return false, ""
	}
	payload, ok := cmd.Payload.(command.MenuUpdatePayload)
	if !ok {
		return false, ""
	}
	// Growth of 50% or more: new*2 >= old*3 avoids float math.
	if payload.MaxGuests*2 >= state.Menu.MaxGuests*3 {
		return true, fmt.Sprintf("maximum guests grows from %d to %d", state.Menu.MaxGuests, payload.MaxGuests)
	}
	return false, ""
}

func menuBasePriceMissing(cmd command.Command, _ State) (bool, string) {
	basePrice, pricePerPerson, ok := menuPrices(cmd)
	if !ok {
		return false, ""
	}
	if basePrice == 0 && pricePerPerson == 0 {
		return true, "menu has no base price or per-person price"
	}
	return false, ""
}

func dishPricing(cmd command.Command) (price, cost int64, ok bool) {
	switch payload := cmd.Payload.(type) {
	case command.DishCreatePayload:
		return payload.Price, payload.Cost, true
	case command.DishUpdatePayload:
		return payload.Price, payload.Cost, true
	default:
		return 0, 0, false
	}
}

func dishPriceBelowCost(cmd command.Command, _ State) (bool, string) {
	price, cost, ok := dishPricing(cmd)
	if !ok || price <= 0 || cost <= 0 {
		return false, ""
	}
	if price < cost {
		return true, fmt.Sprintf("price %d is below cost %d cents", price, cost)
	}
	return false, ""
}

func dishPriceDecrease(cmd command.Command, state State) (bool, string) {
	if cmd.Type != command.TypeDishUpdate || state.Dish == nil {
		return false, ""
	}
	payload, ok := cmd.Payload.(command.DishUpdatePayload)
	if !ok {
		return false, ""
	}
	if payload.Price < state.Dish.Price {
		return true, fmt.Sprintf("price drops from %d to %d cents", state.Dish.Price, payload.Price)
	}
	return false, ""
}

func dishMarginBelowThreshold(cmd command.Command, _ State) (bool, string) {
	price, cost, ok := dishPricing(cmd)
	if !ok || price <= 0 || cost <= 0 || price < cost {
		return false, ""
	}
	// Margin under 20%: (price-cost)*5 < price avoids float math.
	if (price-cost)*5 < price {
		return true, fmt.Sprintf("margin on price %d against cost %d is under 20%%", price, cost)
	}
	return false, ""
}

func prepListMultiplier(cmd command.Command) (float64, bool) {
	switch payload := cmd.Payload.(type) {
	case command.PrepListCreatePayload:
		return payload.BatchMultiplier, true
	case command.PrepListUpdatePayload:
		return payload.BatchMultiplier, true
	default:
		return 0, false
	}
}

func prepListMultiplierExcessive(cmd command.Command, _ State) (bool, string) {
	multiplier, ok := prepListMultiplier(cmd)
	if !ok {
		return false, ""
	}
	if multiplier > 10 {
		return true, fmt.Sprintf("batch multiplier %.2f exceeds the maximum of 10", multiplier)
	}
	return false, ""
}

func prepListMultiplierSpike(cmd command.Command, state State) (bool, string) {
	if cmd.Type != command.TypePrepListUpdate || state.PrepList == nil || state.PrepList.BatchMultiplier <= 0 {
		return false, ""
	}
	payload, ok := cmd.Payload.(command.PrepListUpdatePayload)
	if !ok || payload.BatchMultiplier == 0 {
		return false, ""
	}
	if payload.BatchMultiplier >= state.PrepList.BatchMultiplier*2 {
		return true, fmt.Sprintf("batch multiplier jumps from %.2f to %.2f", state.PrepList.BatchMultiplier, payload.BatchMultiplier)
	}
	return false, ""
}

func prepListNameChange(cmd command.Command, state State) (bool, string) {
	if cmd.Type != command.TypePrepListUpdate || state.PrepList == nil {
		return false, ""
	}
	payload, ok := cmd.Payload.(command.PrepListUpdatePayload)
	if !ok || payload.Name == "" {
		return false, ""
	}
	if payload.Name != state.PrepList.Name {
		return true, fmt.Sprintf("prep list renamed from %q to %q", state.PrepList.Name, payload.Name)
	}
	return false, ""
}
