// Package validators checks inbound sync payloads before they reach the
// services. The sync API accepts batches of client changes from devices that
// cannot be trusted to send well-formed data, so every change is validated
// structurally (required payload parts per operation, sane version numbers)
// before any storage work happens.
//
// Validators are injected into services as the [Validator] interface, which
// keeps the rules testable in isolation and out of the transport layer.
package validators

import "context"

// Validator validates arbitrary input values. Implementations may perform
// structural validation, semantic checks and cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally restricts
	// validation to specific named fields. With no field names the
	// implementation chooses its default field set for the input.
	Validate(context.Context, any, ...string) error
}
