package depreciation

import "errors"

var errInsufficientData = errors.New("no valid consecutive model-year pairs")
