// Package timeutil provides the saturating, sentinel-aware time
// arithmetic the rolling-stock scheduling core is built on.
//
// Two types anchor the package:
//
//	Duration:  a non-negative length of hours/minutes/seconds, or Infinity.
//	DateTime:  Earliest, a concrete point in time, or Latest.
//
// Ordinary time.Duration/time.Time cannot express "this tour has no
// reachable successor" (Infinity) or "this depot opens before the
// planning horizon begins" (Earliest) without resorting to magic
// sentinel values, so railsched carries its own total order instead.
// Arithmetic never panics on the caller's behalf for input parsing
// (malformed strings return ErrParse), but breaking the sentinel
// arithmetic rules themselves (no negative durations, nothing
// subtracted from Infinity) is a programmer error and panics.
package timeutil
