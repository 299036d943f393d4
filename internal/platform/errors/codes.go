// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Command errors
	CodeCommandTypeUnknown Code = "COMMAND_TYPE_UNKNOWN"
	CodeTenantRequired     Code = "TENANT_REQUIRED"
	CodeActorRequired      Code = "ACTOR_REQUIRED"
	CodePayloadInvalid     Code = "PAYLOAD_INVALID"

	// Menu errors
	CodeMenuNameEmpty         Code = "MENU_NAME_EMPTY"
	CodeMenuAlreadyActive     Code = "MENU_ALREADY_ACTIVE"
	CodeMenuAlreadyInactive   Code = "MENU_ALREADY_INACTIVE"
	CodeMenuDishAlreadyLinked Code = "MENU_DISH_ALREADY_LINKED"
	CodeMenuDishNotLinked     Code = "MENU_DISH_NOT_LINKED"

	// Dish errors
	CodeDishNameEmpty Code = "DISH_NAME_EMPTY"

	// Prep list errors
	CodePrepListNameEmpty     Code = "PREP_LIST_NAME_EMPTY"
	CodePrepListEventEmpty    Code = "PREP_LIST_EVENT_EMPTY"
	CodePrepListStatusInvalid Code = "PREP_LIST_STATUS_INVALID"

	// Override errors
	CodeOverrideReasonInvalid Code = "OVERRIDE_REASON_INVALID"
	CodeOverrideDetailsEmpty  Code = "OVERRIDE_DETAILS_EMPTY"
	CodeOverrideActorMismatch Code = "OVERRIDE_ACTOR_MISMATCH"
	CodeOverrideNotAuthorized Code = "OVERRIDE_NOT_AUTHORIZED"

	// Sequencing errors
	CodeSequenceEmpty          Code = "SEQUENCE_EMPTY"
	CodeSequenceDuplicateChild Code = "SEQUENCE_DUPLICATE_CHILD"
	CodeSequenceMembership     Code = "SEQUENCE_MEMBERSHIP"

	// Storage errors
	CodeNotFound              Code = "NOT_FOUND"
	CodeInfrastructureFailure Code = "INFRASTRUCTURE_FAILURE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeCommandTypeUnknown,
		CodeTenantRequired,
		CodeActorRequired,
		CodePayloadInvalid,
		CodeMenuNameEmpty,
		CodeDishNameEmpty,
		CodePrepListNameEmpty,
		CodePrepListEventEmpty,
		CodePrepListStatusInvalid,
		CodeOverrideReasonInvalid,
		CodeOverrideDetailsEmpty,
		CodeOverrideActorMismatch,
		CodeSequenceEmpty,
		CodeSequenceDuplicateChild:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeMenuAlreadyActive,
		CodeMenuAlreadyInactive,
		CodeMenuDishAlreadyLinked,
		CodeMenuDishNotLinked,
		CodeSequenceMembership:
		return codes.FailedPrecondition

	// PermissionDenied - actor lacks the override capability
	case CodeOverrideNotAuthorized:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist or belongs to another tenant
	case CodeNotFound:
		return codes.NotFound

	case CodeInfrastructureFailure:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
