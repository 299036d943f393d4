package command

import (
	"strings"

	"github.com/harvestline/kitchenops/internal/platform/errors"
)

// ReasonCode classifies why a kitchen manager overrode a blocking constraint.
// The set is closed; free-form context goes in Details.
type ReasonCode string

const (
	ReasonCustomerRequest  ReasonCode = "customer_request"
	ReasonEquipmentFailure ReasonCode = "equipment_failure"
	ReasonTimeCrunch       ReasonCode = "time_crunch"
	ReasonSubstitution     ReasonCode = "substitution"
	ReasonStaffingGap      ReasonCode = "staffing_gap"
	ReasonOther            ReasonCode = "other"
)

var validReasons = map[ReasonCode]struct{}{
	ReasonCustomerRequest:  {},
	ReasonEquipmentFailure: {},
	ReasonTimeCrunch:       {},
	ReasonSubstitution:     {},
	ReasonStaffingGap:      {},
	ReasonOther:            {},
}

// ValidReasonCode reports whether code belongs to the closed reason set.
func ValidReasonCode(code ReasonCode) bool {
	_, ok := validReasons[code]
	return ok
}

// OverrideRequest accompanies the resubmission of a blocked command.
// Acknowledged lists the constraint IDs the actor was shown when the
// original attempt blocked; a blocking outcome missing from the list
// re-blocks the command.
type OverrideRequest struct {
	ReasonCode   ReasonCode
	Details      string
	ActorID      string
	Acknowledged []string
}

// Validate checks the structural shape of an override request.
func (o OverrideRequest) Validate() error {
	if !ValidReasonCode(o.ReasonCode) {
		return errors.WithMetadata(errors.CodeOverrideReasonInvalid, "override reason code is not recognized",
			map[string]string{"ReasonCode": string(o.ReasonCode)})
	}
	if strings.TrimSpace(o.Details) == "" {
		return errors.New(errors.CodeOverrideDetailsEmpty, "override details are required")
	}
	return nil
}

// Acknowledges reports whether the given constraint ID was acknowledged.
func (o OverrideRequest) Acknowledges(constraintID string) bool {
	for _, id := range o.Acknowledged {
		if id == constraintID {
			return true
		}
	}
	return false
}
