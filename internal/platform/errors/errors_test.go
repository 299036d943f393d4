package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorInterface(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeInfrastructureFailure, "write failed", cause)

	if err.Error() != "write failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "write failed")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	a := New(CodeMenuNameEmpty, "menu name is empty")
	b := New(CodeMenuNameEmpty, "different message")
	c := New(CodeDishNameEmpty, "dish name is empty")

	if !errors.Is(a, b) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"domain error", New(CodeNotFound, "menu missing"), CodeNotFound},
		{"wrapped domain error", fmt.Errorf("outer: %w", New(CodeTenantRequired, "no tenant")), CodeTenantRequired},
		{"plain error", fmt.Errorf("boom"), CodeUnknown},
		{"nil", nil, CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeOverrideDetailsEmpty, "details missing")
	if !IsCode(err, CodeOverrideDetailsEmpty) {
		t.Error("IsCode should match the error's code")
	}
	if IsCode(err, CodeOverrideReasonInvalid) {
		t.Error("IsCode should not match a different code")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeMenuNameEmpty, codes.InvalidArgument},
		{CodeSequenceDuplicateChild, codes.InvalidArgument},
		{CodeOverrideActorMismatch, codes.InvalidArgument},
		{CodePrepListStatusInvalid, codes.InvalidArgument},
		{CodeMenuAlreadyActive, codes.FailedPrecondition},
		{CodeSequenceMembership, codes.FailedPrecondition},
		{CodeOverrideNotAuthorized, codes.PermissionDenied},
		{CodeNotFound, codes.NotFound},
		{CodeInfrastructureFailure, codes.Unavailable},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.GRPCCode(); got != tt.want {
				t.Errorf("GRPCCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := WithMetadata(CodeOverrideReasonInvalid, "bad reason", map[string]string{
		"ReasonCode": "vibes",
	})

	grpcErr := HandleError(err, "en-US")
	st, ok := status.FromError(grpcErr)
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.InvalidArgument {
		t.Errorf("status code = %v, want %v", st.Code(), codes.InvalidArgument)
	}
	if len(st.Details()) != 2 {
		t.Fatalf("expected 2 details, got %d", len(st.Details()))
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	grpcErr := HandleError(fmt.Errorf("boom"), "")
	st, ok := status.FromError(grpcErr)
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.Internal {
		t.Errorf("status code = %v, want %v", st.Code(), codes.Internal)
	}
}

func TestHandleErrorNil(t *testing.T) {
	if got := HandleError(nil, "en-US"); got != nil {
		t.Errorf("HandleError(nil) = %v, want nil", got)
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeSequenceDuplicateChild, "dup", map[string]string{"ChildID": "d1"})
	md := GetMetadata(err)
	if md["ChildID"] != "d1" {
		t.Errorf("metadata ChildID = %q, want %q", md["ChildID"], "d1")
	}
	if GetMetadata(fmt.Errorf("plain")) != nil {
		t.Error("plain errors should have nil metadata")
	}
}
