package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeCommandTypeUnknown = "COMMAND_TYPE_UNKNOWN"
	CodeTenantRequired     = "TENANT_REQUIRED"
	CodeActorRequired      = "ACTOR_REQUIRED"
	CodePayloadInvalid     = "PAYLOAD_INVALID"

	CodeMenuNameEmpty         = "MENU_NAME_EMPTY"
	CodeMenuAlreadyActive     = "MENU_ALREADY_ACTIVE"
	CodeMenuAlreadyInactive   = "MENU_ALREADY_INACTIVE"
	CodeMenuDishAlreadyLinked = "MENU_DISH_ALREADY_LINKED"
	CodeMenuDishNotLinked     = "MENU_DISH_NOT_LINKED"

	CodeDishNameEmpty = "DISH_NAME_EMPTY"

	CodePrepListNameEmpty     = "PREP_LIST_NAME_EMPTY"
	CodePrepListEventEmpty    = "PREP_LIST_EVENT_EMPTY"
	CodePrepListStatusInvalid = "PREP_LIST_STATUS_INVALID"

	CodeOverrideReasonInvalid = "OVERRIDE_REASON_INVALID"
	CodeOverrideDetailsEmpty  = "OVERRIDE_DETAILS_EMPTY"
	CodeOverrideActorMismatch = "OVERRIDE_ACTOR_MISMATCH"
	CodeOverrideNotAuthorized = "OVERRIDE_NOT_AUTHORIZED"

	CodeSequenceEmpty          = "SEQUENCE_EMPTY"
	CodeSequenceDuplicateChild = "SEQUENCE_DUPLICATE_CHILD"
	CodeSequenceMembership     = "SEQUENCE_MEMBERSHIP"

	CodeNotFound              = "NOT_FOUND"
	CodeInfrastructureFailure = "INFRASTRUCTURE_FAILURE"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Command errors
		CodeCommandTypeUnknown: "Unknown command type {{.CommandType}}",
		CodeTenantRequired:     "Tenant is required",
		CodeActorRequired:      "Actor is required",
		CodePayloadInvalid:     "Command payload is invalid",

		// Menu errors
		CodeMenuNameEmpty:         "Menu name cannot be empty",
		CodeMenuAlreadyActive:     "Menu is already active",
		CodeMenuAlreadyInactive:   "Menu is already inactive",
		CodeMenuDishAlreadyLinked: "Dish is already in the menu",
		CodeMenuDishNotLinked:     "Dish is not in the menu",

		// Dish errors
		CodeDishNameEmpty: "Dish name cannot be empty",

		// Prep list errors
		CodePrepListNameEmpty:     "Prep list name cannot be empty",
		CodePrepListEventEmpty:    "Event ID is required for prep list",
		CodePrepListStatusInvalid: "Prep list status is not recognized",

		// Override errors
		CodeOverrideReasonInvalid: "Override reason {{.ReasonCode}} is not recognized",
		CodeOverrideDetailsEmpty:  "Override justification cannot be empty",
		CodeOverrideActorMismatch: "Override must come from the actor submitting the command",
		CodeOverrideNotAuthorized: "You are not authorized to override this constraint",

		// Sequencing errors
		CodeSequenceEmpty:          "At least one item is required to reorder",
		CodeSequenceDuplicateChild: "Duplicate item {{.ChildID}} in reorder request",
		CodeSequenceMembership:     "One or more items not found or access denied",

		// Storage errors
		CodeNotFound:              "The requested resource was not found or access denied",
		CodeInfrastructureFailure: "A storage error occurred, please retry",
	},
}
