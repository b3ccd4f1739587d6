// Package txerrors defines the typed error taxonomy raised while validating
// a signed transaction against the ledger. Every error carries a Kind so
// callers can switch on failure category with errors.As, plus whatever
// contextual fields (indices, units, addresses) the validator had in hand
// when it failed.
package txerrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the categories of validation failure. Values are stable
// and may be compared directly.
type Kind int

const (
	// KindInputArity is raised when the chain view returned a different
	// number of resolved inputs than the transaction declared.
	KindInputArity Kind = iota
	// KindInputAlreadySpent is raised when enforce-unspent is on and an
	// input references an output the chain view reports as spent.
	KindInputAlreadySpent
	// KindUnsupportedClaim is raised for a claim variant the dispatcher
	// does not recognize.
	KindUnsupportedClaim
	// KindUnitMismatch is raised by Asset arithmetic across differing
	// asset units.
	KindUnitMismatch
	// KindPriceMalformed is raised when a Price ratio is zero or its
	// base/quote units are inconsistent.
	KindPriceMalformed
	// KindZeroOwner is raised when a claim's owner/address field is the
	// zero value.
	KindZeroOwner
	// KindMissingCounterparty is raised when a Bid/Long input is taken as
	// a fill but no matching output exists.
	KindMissingCounterparty
	// KindCollateralInsufficient is raised when a counterparty Cover
	// output for a Long fill carries less than the required collateral.
	KindCollateralInsufficient
	// KindMarginReduction is raised when an outgoing Cover's
	// collateralization ratio is below the incoming Cover's ratio.
	KindMarginReduction
	// KindDoubleUseOfOutput is raised when the matcher is asked to mark
	// an already-used output as used again.
	KindDoubleUseOfOutput
	// KindValueCreated is raised when a non-native asset row fails
	// conservation.
	KindValueCreated
	// KindMissingSignatures is raised when required signers did not sign
	// the transaction.
	KindMissingSignatures
	// KindOverflow is raised on Asset or CDD arithmetic overflow.
	KindOverflow
)

func (k Kind) String() string {
	switch k {
	case KindInputArity:
		return "input_arity"
	case KindInputAlreadySpent:
		return "input_already_spent"
	case KindUnsupportedClaim:
		return "unsupported_claim"
	case KindUnitMismatch:
		return "unit_mismatch"
	case KindPriceMalformed:
		return "price_malformed"
	case KindZeroOwner:
		return "zero_owner"
	case KindMissingCounterparty:
		return "missing_counterparty"
	case KindCollateralInsufficient:
		return "collateral_insufficient"
	case KindMarginReduction:
		return "margin_reduction"
	case KindDoubleUseOfOutput:
		return "double_use_of_output"
	case KindValueCreated:
		return "value_created"
	case KindMissingSignatures:
		return "missing_signatures"
	case KindOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// ValidationError is the single error type the validation core raises.
// Fields beyond Kind are populated on a best-effort basis depending on the
// failure; empty strings and slices mean "not applicable to this failure",
// and the index fields use -1 for that.
type ValidationError struct {
	Kind Kind

	// Index fields, -1 when not applicable.
	InputIndex  int
	OutputIndex int

	// Contextual payload, populated depending on Kind.
	Unit      string
	Required  string
	Found     string
	Addresses []string

	// Msg is a short human-readable description; Cause wraps an
	// underlying error when one exists (e.g. an arithmetic overflow from
	// the asset package).
	Msg   string
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("validation: %s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("validation: %s", e.Kind)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Is reports whether target is a *ValidationError with the same Kind,
// letting callers write errors.Is(err, txerrors.New(KindOverflow)).
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New builds a bare ValidationError of the given kind, suitable for use
// with errors.Is as a sentinel-like matcher.
func New(kind Kind) *ValidationError {
	return &ValidationError{Kind: kind, InputIndex: -1, OutputIndex: -1}
}

// Inputf builds an input-indexed ValidationError with a formatted message.
func Inputf(kind Kind, index int, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, InputIndex: index, OutputIndex: -1, Msg: fmt.Sprintf(format, args...)}
}

// Outputf builds an output-indexed ValidationError with a formatted message.
func Outputf(kind Kind, index int, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, InputIndex: -1, OutputIndex: index, Msg: fmt.Sprintf(format, args...)}
}

// MissingSignatures builds a KindMissingSignatures error listing the
// addresses (anything with a String method, such as Address or
// PtsAddress) whose signature was required but absent.
func MissingSignatures[T fmt.Stringer](addrs []T) *ValidationError {
	list := make([]string, len(addrs))
	for i, a := range addrs {
		list[i] = a.String()
	}
	return &ValidationError{
		Kind:        KindMissingSignatures,
		InputIndex:  -1,
		OutputIndex: -1,
		Addresses:   list,
		Msg:         fmt.Sprintf("missing signatures: %v", list),
	}
}

// Wrap builds a plain ValidationError around cause with a formatted
// message, used for kinds that are not index-specific (conservation,
// signature closure, overflow from a nested arithmetic call).
func Wrap(kind Kind, cause error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, InputIndex: -1, OutputIndex: -1, Msg: fmt.Sprintf(format, args...), Cause: cause}
}
