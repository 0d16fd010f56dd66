package mincostflow

import "errors"

// ErrInfeasible indicates the circulation's lower bounds cannot all be
// satisfied simultaneously: the super-source-to-super-sink flow could
// not saturate every required unit. Fatal; there is no schedule to
// decode.
var ErrInfeasible = errors.New("mincostflow: infeasible circulation")

// ErrCostOverflow is a non-fatal warning signal: a vehicle type's
// spawning-cost formula exceeded a safe int64 margin and was clamped.
// Solve logs it at Warn level and continues; the clamped cost still
// dominates realistic non-spawning paths.
var ErrCostOverflow = errors.New("mincostflow: edge cost overflow risk")
