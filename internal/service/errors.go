package service

import "errors"

// ErrorKind is the closed set of failure classes surfaced by the item operations.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindNegativeValue
	KindNotFound
	KindStoreFault
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNegativeValue:
		return "negative_value"
	case KindNotFound:
		return "not_found"
	case KindStoreFault:
		return "store_fault"
	default:
		return "unexpected"
	}
}

// KindOf classifies err. Anything not recognized is KindUnexpected.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrItemNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidItem):
		return KindValidation
	case errors.Is(err, ErrNegativeValue):
		return KindNegativeValue
	case errors.Is(err, ErrStoreFault):
		return KindStoreFault
	default:
		return KindUnexpected
	}
}
