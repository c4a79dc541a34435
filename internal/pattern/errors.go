package pattern

import "errors"

// ErrInvalidParameter is returned when a layout or pattern parameter is out of
// range and clamping is not requested.
var ErrInvalidParameter = errors.New("pattern: invalid parameter")
