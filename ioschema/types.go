// Package ioschema loads a solve instance from the input JSON document
// into an immutable network.Network + vehicletype.Table +
// config.Config, and writes a solved schedule.Schedule back out as the
// result JSON document. Decoding goes through unexported raw* structs
// that mirror the wire format exactly; the domain types are built in a
// second pass.
package ioschema

import (
	"errors"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/vehicletype"
)

// Sentinel errors surfaced by LoadInstance.
var (
	// ErrParse wraps malformed or structurally invalid input.
	ErrParse = errors.New("ioschema: parse error")

	// ErrDomain wraps a value that parses but violates a domain
	// constraint (an unknown reference); capacities are not checked.
	ErrDomain = errors.New("ioschema: domain error")
)

// Instance is the converted, ready-to-solve input: a built Network,
// vehicle-type Table and Config, plus the id<->index lookups a CLI
// layer needs to translate solver output back into the caller's ids.
type Instance struct {
	Network     *network.Network
	VehicleTypes *vehicletype.Table
	Config      config.Config

	// LocationIDs maps a LocationIdx back to the input's location id,
	// used by WriteResult and any diagnostic output.
	LocationIDs []string
	// DepotIDs maps a DepotIdx back to the input's depot id.
	DepotIDs []string
	// VehicleTypeIDs maps a VehicleTypeIdx back to the input's
	// vehicleType id.
	VehicleTypeIDs []string
}

type rawInstance struct {
	VehicleTypes     []rawVehicleType     `json:"vehicleTypes"`
	Locations        []rawLocation        `json:"locations"`
	Depots           []rawDepot           `json:"depots"`
	Routes           []rawRoute           `json:"routes"`
	Departures       []rawDeparture       `json:"departures"`
	MaintenanceSlots []rawMaintenanceSlot `json:"maintenanceSlots"`
	DeadHeadTrips    rawDeadHeadTrips     `json:"deadHeadTrips"`
	Parameters       rawParameters        `json:"parameters"`
}

type rawVehicleType struct {
	ID                    string `json:"id"`
	Capacity              int    `json:"capacity"`
	Seats                 int    `json:"seats"`
	MaximalFormationCount int    `json:"maximalFormationCount"`
}

type rawLocation struct {
	ID       string `json:"id"`
	DayLimit string `json:"dayLimit"`
}

type rawAllowedType struct {
	VehicleType string `json:"vehicleType"`
	Capacity    *int   `json:"capacity"`
}

type rawDepot struct {
	ID           string           `json:"id"`
	Location     string           `json:"location"`
	Capacity     *int             `json:"capacity"`
	AllowedTypes []rawAllowedType `json:"allowedTypes"`
}

type rawRouteSegment struct {
	ID                    string  `json:"id"`
	Order                 int     `json:"order"`
	Origin                string  `json:"origin"`
	Destination           string  `json:"destination"`
	Distance              float64 `json:"distance"`
	Duration              int64   `json:"duration"`
	MaximalFormationCount int     `json:"maximalFormationCount"`
}

type rawRoute struct {
	ID          string            `json:"id"`
	VehicleType string            `json:"vehicleType"`
	Segments    []rawRouteSegment `json:"segments"`
}

type rawDepartureSegment struct {
	ID          string `json:"id"`
	RouteSegment string `json:"routeSegment"`
	Departure   string `json:"departure"`
	Passengers  int    `json:"passengers"`
	Seated      int    `json:"seated"`
}

type rawDeparture struct {
	ID       string                `json:"id"`
	Route    string                `json:"route"`
	Segments []rawDepartureSegment `json:"segments"`
}

type rawMaintenanceSlot struct {
	ID         string `json:"id"`
	Location   string `json:"location"`
	Start      string `json:"start"`
	End        string `json:"end"`
	TrackCount int    `json:"trackCount"`
}

type rawDeadHeadTrips struct {
	Indices   []string    `json:"indices"`
	Durations [][]int64   `json:"durations"`
	Distances [][]float64 `json:"distances"`
}

type rawShunting struct {
	MinimalDuration      int64 `json:"minimalDuration"`
	DeadHeadTripDuration int64 `json:"deadHeadTripDuration"`
}

type rawMaintenanceParams struct {
	MaximalDistance float64 `json:"maximalDistance"`
}

type rawCosts struct {
	Staff        float64 `json:"staff"`
	ServiceTrip  float64 `json:"serviceTrip"`
	Maintenance  float64 `json:"maintenance"`
	DeadHeadTrip float64 `json:"deadHeadTrip"`
	Idle         float64 `json:"idle"`
}

type rawParameters struct {
	ForbidDeadHeadTrips bool                  `json:"forbidDeadHeadTrips"`
	DayLimitThreshold   string                `json:"dayLimitThreshold"`
	Shunting            rawShunting           `json:"shunting"`
	Maintenance         *rawMaintenanceParams `json:"maintenance"`
	Costs               rawCosts              `json:"costs"`
}
