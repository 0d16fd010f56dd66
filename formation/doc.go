// Package formation implements TrainFormation: the ordered list of
// physical rolling-stock units coupled together to cover a node. It is
// immutable like tour.Tour; Replace, Remove and AddAtTail each return
// a new TrainFormation, and the fallible operations return errors
// rather than panicking.
package formation
