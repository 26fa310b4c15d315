package models

// DriverState is a driver's operational eligibility.
type DriverState string

const (
	DriverPending   DriverState = "pending"
	DriverEnabled   DriverState = "enabled"
	DriverObserved  DriverState = "observed"
	DriverSuspended DriverState = "suspended"
	DriverRevoked   DriverState = "revoked"
)

// RequestState is the stage of an authorization request.
type RequestState string

const (
	RequestRequested RequestState = "requested"
	RequestInReview  RequestState = "in_review"
	RequestApproved  RequestState = "approved"
	RequestObserved  RequestState = "observed"
	RequestRejected  RequestState = "rejected"
	RequestEnabled   RequestState = "enabled"
	RequestSuspended RequestState = "suspended"
)

// PaymentState is the stage of a payment record.
type PaymentState string

const (
	PaymentPending   PaymentState = "pending"
	PaymentConfirmed PaymentState = "confirmed"
	PaymentRejected  PaymentState = "rejected"
)

// driverTransitions lists the allowed edges of the driver eligibility
// machine. Revoked is terminal and has no entry.
var driverTransitions = map[DriverState][]DriverState{
	DriverPending:   {DriverEnabled, DriverObserved, DriverRevoked},
	DriverObserved:  {DriverPending, DriverEnabled, DriverRevoked},
	DriverEnabled:   {DriverSuspended, DriverRevoked, DriverObserved},
	DriverSuspended: {DriverEnabled, DriverRevoked},
}

// CanDriverTransition reports whether the driver machine allows moving from
// one state to another. Self-transitions are not edges.
func CanDriverTransition(from, to DriverState) bool {
	for _, next := range driverTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// requestTransitions lists the allowed edges of the authorization workflow.
// Rejected is terminal and has no entry.
var requestTransitions = map[RequestState][]RequestState{
	RequestRequested: {RequestInReview},
	RequestInReview:  {RequestApproved, RequestObserved},
	RequestApproved:  {RequestEnabled, RequestRejected},
	RequestObserved:  {RequestRequested},
	RequestEnabled:   {RequestSuspended, RequestRejected},
	RequestSuspended: {RequestEnabled},
}

// CanRequestTransition reports whether the workflow allows moving from one
// state to another.
func CanRequestTransition(from, to RequestState) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalRequestState reports whether a request state has no outgoing
// edges.
func IsTerminalRequestState(state RequestState) bool {
	return len(requestTransitions[state]) == 0
}

// ProjectDriverState maps a request state onto the driver eligibility it
// implies. The driver state is always this projection of its current
// request; it is never written independently, so the two machines cannot
// drift.
func ProjectDriverState(state RequestState) DriverState {
	switch state {
	case RequestRequested, RequestInReview, RequestApproved:
		return DriverPending
	case RequestObserved:
		return DriverObserved
	case RequestEnabled:
		return DriverEnabled
	case RequestSuspended:
		return DriverSuspended
	case RequestRejected:
		return DriverRevoked
	default:
		return DriverPending
	}
}
