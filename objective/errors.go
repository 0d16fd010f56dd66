package objective

import "errors"

// ErrIncompatibleBaseValue names the failure of combining two
// BaseValues of different, non-Zero, non-Maximum kinds. No function
// returns it: Add, Sub and Mul panic with their own messages instead.
var ErrIncompatibleBaseValue = errors.New("objective: incompatible base value kinds")
