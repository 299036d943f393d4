package command

import (
	"strings"

	"github.com/harvestline/kitchenops/internal/platform/errors"
)

// Type identifies a command. The string values are stable and appear in
// telemetry and audit rows.
type Type string

const (
	TypeMenuCreate         Type = "menu.create"
	TypeMenuUpdate         Type = "menu.update"
	TypeMenuActivate       Type = "menu.activate"
	TypeMenuDeactivate     Type = "menu.deactivate"
	TypeMenuDelete         Type = "menu.delete"
	TypeMenuAddDish        Type = "menu.add_dish"
	TypeMenuRemoveDish     Type = "menu.remove_dish"
	TypeMenuReorderDishes  Type = "menu.reorder_dishes"
	TypeDishCreate         Type = "dish.create"
	TypeDishUpdate         Type = "dish.update"
	TypeDishDelete         Type = "dish.delete"
	TypePrepListCreate     Type = "prep_list.create"
	TypePrepListUpdate     Type = "prep_list.update"
	TypePrepListDelete     Type = "prep_list.delete"
	TypePrepListReorder    Type = "prep_list.reorder_items"
)

// AggregateType names the aggregate a command targets.
type AggregateType string

const (
	AggregateMenu     AggregateType = "menu"
	AggregateDish     AggregateType = "dish"
	AggregatePrepList AggregateType = "prep_list"
)

// Aggregate returns the aggregate type a command type targets, or an empty
// string for unknown types.
func (t Type) Aggregate() AggregateType {
	switch {
	case strings.HasPrefix(string(t), "menu."):
		return AggregateMenu
	case strings.HasPrefix(string(t), "dish."):
		return AggregateDish
	case strings.HasPrefix(string(t), "prep_list."):
		return AggregatePrepList
	default:
		return ""
	}
}

// IsCreate reports whether the command creates a new aggregate and therefore
// carries no aggregate ID.
func (t Type) IsCreate() bool {
	switch t {
	case TypeMenuCreate, TypeDishCreate, TypePrepListCreate:
		return true
	default:
		return false
	}
}

// Command is a single mutation request against one aggregate.
type Command struct {
	Type        Type
	TenantID    string
	ActorID     string
	AggregateID string // empty for create commands
	Payload     any
}

var payloadTypes = map[Type]func(any) bool{
	TypeMenuCreate:        func(p any) bool { _, ok := p.(MenuCreatePayload); return ok },
	TypeMenuUpdate:        func(p any) bool { _, ok := p.(MenuUpdatePayload); return ok },
	TypeMenuActivate:      func(p any) bool { return p == nil },
	TypeMenuDeactivate:    func(p any) bool { return p == nil },
	TypeMenuDelete:        func(p any) bool { return p == nil },
	TypeMenuAddDish:       func(p any) bool { _, ok := p.(MenuAddDishPayload); return ok },
	TypeMenuRemoveDish:    func(p any) bool { _, ok := p.(MenuRemoveDishPayload); return ok },
	TypeMenuReorderDishes: func(p any) bool { _, ok := p.(MenuReorderDishesPayload); return ok },
	TypeDishCreate:        func(p any) bool { _, ok := p.(DishCreatePayload); return ok },
	TypeDishUpdate:        func(p any) bool { _, ok := p.(DishUpdatePayload); return ok },
	TypeDishDelete:        func(p any) bool { return p == nil },
	TypePrepListCreate:    func(p any) bool { _, ok := p.(PrepListCreatePayload); return ok },
	TypePrepListUpdate:    func(p any) bool { _, ok := p.(PrepListUpdatePayload); return ok },
	TypePrepListDelete:    func(p any) bool { return p == nil },
	TypePrepListReorder:   func(p any) bool { _, ok := p.(PrepListReorderItemsPayload); return ok },
}

// Validate checks the structural shape of a command: known type, tenant and
// actor present, aggregate ID present unless creating, payload of the
// expected concrete type.
func (c Command) Validate() error {
	check, ok := payloadTypes[c.Type]
	if !ok {
		return errors.WithMetadata(errors.CodeCommandTypeUnknown, "unknown command type",
			map[string]string{"CommandType": string(c.Type)})
	}
	if strings.TrimSpace(c.TenantID) == "" {
		return errors.New(errors.CodeTenantRequired, "tenant id is required")
	}
	if strings.TrimSpace(c.ActorID) == "" {
		return errors.New(errors.CodeActorRequired, "actor id is required")
	}
	if !c.Type.IsCreate() && strings.TrimSpace(c.AggregateID) == "" {
		return errors.New(errors.CodePayloadInvalid, "aggregate id is required")
	}
	if !check(c.Payload) {
		return errors.WithMetadata(errors.CodePayloadInvalid, "payload does not match command type",
			map[string]string{"CommandType": string(c.Type)})
	}
	return nil
}
