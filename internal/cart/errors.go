package cart

import "errors"

var (
	ErrItemUnavailable = errors.New("item is not available for ordering")
)
