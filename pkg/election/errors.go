package election

import (
	"errors"
	"fmt"
)

// Not-found kinds. Machine-readable so callers can branch without
// sniffing message text.
const (
	KindDistrict  = "district"
	KindRegion    = "province"
	KindParty     = "party"
	KindNoMatches = "no_matches"
	KindNoData    = "no_data"
)

// NotFoundError reports an expected lookup miss: unknown riding code,
// unresolvable province or party, empty search result, or a riding with
// no vote data. These are ordinary outcomes of open-ended input, not
// faults; every query operation returns them as values.
type NotFoundError struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

func (e *NotFoundError) Error() string { return e.Detail }

// AsNotFound unwraps err into a *NotFoundError if it is one.
func AsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

func errDistrict(code int) *NotFoundError {
	return &NotFoundError{Kind: KindDistrict, Detail: fmt.Sprintf("riding code %d not found", code)}
}

func errRegion(code string) *NotFoundError {
	return &NotFoundError{Kind: KindRegion, Detail: fmt.Sprintf("province code %s not found", code)}
}

func errParty(code string, district int) *NotFoundError {
	if district >= 0 {
		return &NotFoundError{Kind: KindParty, Detail: fmt.Sprintf("party code %s not found in riding %d", code, district)}
	}
	return &NotFoundError{Kind: KindParty, Detail: fmt.Sprintf("party code %s not found in any riding", code)}
}

// DuplicateKeyError is a load-time fatal: two input records share a
// riding code. The process must refuse to serve queries over such data.
type DuplicateKeyError struct {
	Code int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate riding code %d in dataset", e.Code)
}
