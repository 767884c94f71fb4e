package services

// Domain error kinds surfaced to handlers. Handlers translate these to the
// API error shape; everything else is treated as an internal error.

// NotFoundError reports an absent referenced entity.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a rejected state change: duplicate relation,
// removal of an absent relation, self-subscription, empty cart download.
// No state change occurred when one of these is returned.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ValidationError reports a field constraint violation on input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ForbiddenError reports a write attempt by a non-owner.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}
