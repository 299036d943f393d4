package executor

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/harvestline/kitchenops/internal/kitchen/command"
	"github.com/harvestline/kitchenops/internal/kitchen/constraint"
	"github.com/harvestline/kitchenops/internal/kitchen/domain"
	"github.com/harvestline/kitchenops/internal/kitchen/sequence"
	"github.com/harvestline/kitchenops/internal/kitchen/storage"
	"github.com/harvestline/kitchenops/internal/platform/errors"
)

// applyDeps bundles what a handler needs to mutate state.
type applyDeps struct {
	uow   storage.UnitOfWork
	now   func() time.Time
	newID func() (string, error)
}

// eventDraft is the outbox event a handler produces. Payload fields are
// merged with the override summary before enqueueing.
type eventDraft struct {
	AggregateID string
	EventType   string
	Payload     map[string]any
}

type applyFunc func(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error)

var registry = map[command.Type]applyFunc{
	command.TypeMenuCreate:        applyMenuCreate,
	command.TypeMenuUpdate:        applyMenuUpdate,
	command.TypeMenuActivate:      applyMenuActivate,
	command.TypeMenuDeactivate:    applyMenuDeactivate,
	command.TypeMenuDelete:        applyMenuDelete,
	command.TypeMenuAddDish:       applyMenuAddDish,
	command.TypeMenuRemoveDish:    applyMenuRemoveDish,
	command.TypeMenuReorderDishes: applyMenuReorderDishes,
	command.TypeDishCreate:        applyDishCreate,
	command.TypeDishUpdate:        applyDishUpdate,
	command.TypeDishDelete:        applyDishDelete,
	command.TypePrepListCreate:    applyPrepListCreate,
	command.TypePrepListUpdate:    applyPrepListUpdate,
	command.TypePrepListDelete:    applyPrepListDelete,
	command.TypePrepListReorder:   applyPrepListReorder,
}

// buildOutboxEvent serializes the handler's draft, folding in the override
// summary when blocking constraints were suppressed and the triggered
// warnings so the audit record survives beyond the log.
func (e *Executor) buildOutboxEvent(cmd command.Command, draft eventDraft, outcomes constraint.Outcomes, override *command.OverrideRequest, overridden []string, now time.Time) (storage.OutboxEvent, error) {
	payload := make(map[string]any, len(draft.Payload)+2)
	for key, value := range draft.Payload {
		payload[key] = value
	}
	if len(overridden) > 0 && override != nil {
		summaries := make([]map[string]any, len(overridden))
		for i, constraintID := range overridden {
			summaries[i] = map[string]any{
				"constraintId": constraintID,
				"reasonCode":   string(override.ReasonCode),
				"actorId":      cmd.ActorID,
			}
		}
		payload["overrides"] = summaries
	}
	var warnings []map[string]any
	for _, outcome := range outcomes.Triggered() {
		if outcome.Severity != constraint.SeverityWarn {
			continue
		}
		warnings = append(warnings, map[string]any{
			"constraintId": outcome.ConstraintID,
			"message":      outcome.Message,
		})
	}
	if len(warnings) > 0 {
		payload["warnings"] = warnings
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return storage.OutboxEvent{}, fmt.Errorf("marshal event payload: %w", err)
	}
	eventID, err := e.newID()
	if err != nil {
		return storage.OutboxEvent{}, fmt.Errorf("generate event id: %w", err)
	}
	return storage.OutboxEvent{
		ID:            eventID,
		TenantID:      cmd.TenantID,
		AggregateType: string(cmd.Type.Aggregate()),
		AggregateID:   draft.AggregateID,
		EventType:     draft.EventType,
		Payload:       encoded,
		CreatedAt:     now,
	}, nil
}

func applyMenuCreate(ctx context.Context, deps applyDeps, cmd command.Command, _ constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.MenuCreatePayload)
	menu, err := domain.CreateMenu(domain.CreateMenuInput{
		TenantID:       cmd.TenantID,
		Name:           payload.Name,
		Description:    payload.Description,
		Category:       payload.Category,
		BasePrice:      payload.BasePrice,
		PricePerPerson: payload.PricePerPerson,
		MinGuests:      payload.MinGuests,
		MaxGuests:      payload.MaxGuests,
	}, deps.now, deps.newID)
	if err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.CreateMenu(ctx, menu); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menu.ID,
		EventType:   "menu.created",
		Payload:     map[string]any{"menuId": menu.ID, "name": menu.Name},
	}, nil
}

func applyMenuUpdate(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.MenuUpdatePayload)
	menu := *state.Menu
	if err := menu.ApplyUpdate(domain.UpdateMenuInput{
		Name:           payload.Name,
		Description:    payload.Description,
		Category:       payload.Category,
		BasePrice:      payload.BasePrice,
		PricePerPerson: payload.PricePerPerson,
		MinGuests:      payload.MinGuests,
		MaxGuests:      payload.MaxGuests,
	}, deps.now); err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.UpdateMenu(ctx, menu); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menu.ID,
		EventType:   "menu.updated",
		Payload:     map[string]any{"menuId": menu.ID, "name": menu.Name},
	}, nil
}

func applyMenuActivate(ctx context.Context, deps applyDeps, _ command.Command, state constraint.State) (eventDraft, error) {
	menu := *state.Menu
	if err := menu.Activate(deps.now); err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.UpdateMenu(ctx, menu); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menu.ID,
		EventType:   "menu.activated",
		Payload:     map[string]any{"menuId": menu.ID},
	}, nil
}

func applyMenuDeactivate(ctx context.Context, deps applyDeps, _ command.Command, state constraint.State) (eventDraft, error) {
	menu := *state.Menu
	if err := menu.Deactivate(deps.now); err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.UpdateMenu(ctx, menu); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menu.ID,
		EventType:   "menu.deactivated",
		Payload:     map[string]any{"menuId": menu.ID},
	}, nil
}

func applyMenuDelete(ctx context.Context, deps applyDeps, _ command.Command, state constraint.State) (eventDraft, error) {
	menu := *state.Menu
	menu.SoftDelete(deps.now)
	if err := deps.uow.UpdateMenu(ctx, menu); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menu.ID,
		EventType:   "menu.deleted",
		Payload:     map[string]any{"menuId": menu.ID},
	}, nil
}

func applyMenuAddDish(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.MenuAddDishPayload)
	menuID := state.Menu.ID

	_, err := deps.uow.GetMenuDish(ctx, cmd.TenantID, menuID, payload.DishID)
	if err == nil {
		return eventDraft{}, errors.WithMetadata(errors.CodeMenuDishAlreadyLinked,
			"dish is already in the menu", map[string]string{"DishID": payload.DishID})
	}
	if !isNotFound(err) {
		return eventDraft{}, err
	}

	// New dishes land after the current last position.
	links, err := deps.uow.ListMenuDishes(ctx, cmd.TenantID, menuID)
	if err != nil {
		return eventDraft{}, err
	}
	maxOrder := 0
	for _, link := range links {
		if link.SortOrder > maxOrder {
			maxOrder = link.SortOrder
		}
	}

	link, err := domain.CreateMenuDish(menuID, payload.DishID, payload.Course, maxOrder+1, deps.newID)
	if err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.AddMenuDish(ctx, cmd.TenantID, link); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menuID,
		EventType:   "menu.dish_added",
		Payload:     map[string]any{"menuId": menuID, "dishId": payload.DishID},
	}, nil
}

func applyMenuRemoveDish(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.MenuRemoveDishPayload)
	menuID := state.Menu.ID

	if _, err := deps.uow.GetMenuDish(ctx, cmd.TenantID, menuID, payload.DishID); err != nil {
		if isNotFound(err) {
			return eventDraft{}, errors.WithMetadata(errors.CodeMenuDishNotLinked,
				"dish is not in the menu", map[string]string{"DishID": payload.DishID})
		}
		return eventDraft{}, err
	}
	if err := deps.uow.RemoveMenuDish(ctx, cmd.TenantID, menuID, payload.DishID, deps.now().UTC()); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menuID,
		EventType:   "menu.dish_removed",
		Payload:     map[string]any{"menuId": menuID, "dishId": payload.DishID},
	}, nil
}

func applyMenuReorderDishes(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.MenuReorderDishesPayload)
	menuID := state.Menu.ID

	if err := sequence.Reorder(ctx, menuDishMemberships{uow: deps.uow}, cmd.TenantID, menuID, payload.DishIDs); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: menuID,
		EventType:   "menu.dishes_reordered",
		Payload:     map[string]any{"menuId": menuID, "dishIds": payload.DishIDs},
	}, nil
}

func applyDishCreate(ctx context.Context, deps applyDeps, cmd command.Command, _ constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.DishCreatePayload)
	dish, err := domain.CreateDish(domain.CreateDishInput{
		TenantID:    cmd.TenantID,
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       payload.Price,
		Cost:        payload.Cost,
	}, deps.now, deps.newID)
	if err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.CreateDish(ctx, dish); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: dish.ID,
		EventType:   "dish.created",
		Payload:     map[string]any{"dishId": dish.ID, "name": dish.Name},
	}, nil
}

func applyDishUpdate(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.DishUpdatePayload)
	dish := *state.Dish
	if err := dish.ApplyUpdate(domain.UpdateDishInput{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       payload.Price,
		Cost:        payload.Cost,
		Active:      payload.Active,
	}, deps.now); err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.UpdateDish(ctx, dish); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: dish.ID,
		EventType:   "dish.updated",
		Payload:     map[string]any{"dishId": dish.ID, "name": dish.Name},
	}, nil
}

func applyDishDelete(ctx context.Context, deps applyDeps, _ command.Command, state constraint.State) (eventDraft, error) {
	dish := *state.Dish
	dish.SoftDelete(deps.now)
	if err := deps.uow.UpdateDish(ctx, dish); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: dish.ID,
		EventType:   "dish.deleted",
		Payload:     map[string]any{"dishId": dish.ID},
	}, nil
}

func applyPrepListCreate(ctx context.Context, deps applyDeps, cmd command.Command, _ constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.PrepListCreatePayload)
	list, err := domain.CreatePrepList(domain.CreatePrepListInput{
		TenantID:        cmd.TenantID,
		EventID:         payload.EventID,
		Name:            payload.Name,
		BatchMultiplier: payload.BatchMultiplier,
		Notes:           payload.Notes,
	}, deps.now, deps.newID)
	if err != nil {
		return eventDraft{}, err
	}
	list.TotalItems = len(payload.Items)
	if err := deps.uow.CreatePrepList(ctx, list); err != nil {
		return eventDraft{}, err
	}
	for i, spec := range payload.Items {
		item, err := domain.CreatePrepListItem(list.ID, spec.StationName, spec.IngredientName, spec.Quantity, spec.Unit, i+1, deps.newID)
		if err != nil {
			return eventDraft{}, err
		}
		if err := deps.uow.CreatePrepListItem(ctx, cmd.TenantID, item); err != nil {
			return eventDraft{}, err
		}
	}
	return eventDraft{
		AggregateID: list.ID,
		EventType:   "prep_list.created",
		Payload:     map[string]any{"prepListId": list.ID, "eventId": list.EventID, "name": list.Name},
	}, nil
}

func applyPrepListUpdate(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.PrepListUpdatePayload)
	list := *state.PrepList
	if err := list.ApplyUpdate(domain.UpdatePrepListInput{
		Name:            payload.Name,
		BatchMultiplier: payload.BatchMultiplier,
		Status:          domain.PrepListStatus(payload.Status),
		Notes:           payload.Notes,
	}, deps.now); err != nil {
		return eventDraft{}, err
	}
	if err := deps.uow.UpdatePrepList(ctx, list); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: list.ID,
		EventType:   "prep_list.updated",
		Payload:     map[string]any{"prepListId": list.ID, "name": list.Name},
	}, nil
}

func applyPrepListDelete(ctx context.Context, deps applyDeps, _ command.Command, state constraint.State) (eventDraft, error) {
	list := *state.PrepList
	list.SoftDelete(deps.now)
	if err := deps.uow.UpdatePrepList(ctx, list); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: list.ID,
		EventType:   "prep_list.deleted",
		Payload:     map[string]any{"prepListId": list.ID},
	}, nil
}

func applyPrepListReorder(ctx context.Context, deps applyDeps, cmd command.Command, state constraint.State) (eventDraft, error) {
	payload := cmd.Payload.(command.PrepListReorderItemsPayload)
	listID := state.PrepList.ID

	if err := sequence.Reorder(ctx, prepListItemMemberships{uow: deps.uow}, cmd.TenantID, listID, payload.ItemIDs); err != nil {
		return eventDraft{}, err
	}
	return eventDraft{
		AggregateID: listID,
		EventType:   "prep_list.items_reordered",
		Payload:     map[string]any{"prepListId": listID, "itemIds": payload.ItemIDs},
	}, nil
}

// menuDishMemberships adapts the unit of work to the sequencing helper for
// menu dish links.
type menuDishMemberships struct {
	uow storage.UnitOfWork
}

func (m menuDishMemberships) CountChildren(ctx context.Context, tenantID, parentID string, childIDs []string) (int, error) {
	return m.uow.CountLinkedMenuDishes(ctx, tenantID, parentID, childIDs)
}

func (m menuDishMemberships) SetPosition(ctx context.Context, tenantID, parentID, childID string, position int) error {
	return m.uow.SetMenuDishPosition(ctx, tenantID, parentID, childID, position)
}

// prepListItemMemberships adapts the unit of work to the sequencing helper
// for prep list items.
type prepListItemMemberships struct {
	uow storage.UnitOfWork
}

func (p prepListItemMemberships) CountChildren(ctx context.Context, tenantID, parentID string, childIDs []string) (int, error) {
	return p.uow.CountLinkedPrepListItems(ctx, tenantID, parentID, childIDs)
}

func (p prepListItemMemberships) SetPosition(ctx context.Context, tenantID, parentID, childID string, position int) error {
	return p.uow.SetPrepListItemPosition(ctx, tenantID, parentID, childID, position)
}

func isNotFound(err error) bool {
	return err != nil && stderrors.Is(err, storage.ErrNotFound)
}
