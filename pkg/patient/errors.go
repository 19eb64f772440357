package patient

import "errors"

// ErrDateParse reports a birth date that is not an 8 digit calendar date in
// YYYYMMDD order. It is recoverable: the derived age falls back to zero.
var ErrDateParse = errors.New("patient: birth date not in YYYYMMDD form")
