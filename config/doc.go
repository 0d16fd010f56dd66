// Package config holds the solver's weight and threshold parameters:
// shunting durations, maintenance distance limits, and the per-activity
// cost coefficients the objective framework and the min-cost-flow
// solver both read. Values are supplied by the JSON instance
// document's parameters object and may be overridden by an optional
// YAML file bound to the CLI's --config flag.
package config
