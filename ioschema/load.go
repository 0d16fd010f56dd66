package ioschema

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/obslog"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/vehicletype"
)

// LoadInstance decodes a solve-instance JSON document from r and builds
// the immutable Network/VehicleTypes/Config the core solver consumes.
// Clamping and coercion warnings (over-limit distances, zero-demand
// coercion, dead-head durations beyond the planning horizon) are
// logged through log at Warn level rather than returned as errors.
func LoadInstance(r io.Reader, log obslog.Logger) (*Instance, error) {
	var raw rawInstance
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode instance: %v", ErrParse, err)
	}

	types, typeIdx, typeIDs, err := buildVehicleTypes(raw.VehicleTypes)
	if err != nil {
		return nil, err
	}

	locIdx, locIDs, err := indexLocations(raw.Locations)
	if err != nil {
		return nil, err
	}

	cfg, err := buildConfig(raw.Parameters)
	if err != nil {
		return nil, err
	}

	planningHorizon := planningHorizonOf(raw.Departures, raw.MaintenanceSlots)

	loc, err := buildLocations(raw.Locations, raw.DeadHeadTrips, locIdx, cfg.MaxDistance, planningHorizon, log)
	if err != nil {
		return nil, err
	}

	depots, depotIDs, err := buildDepots(raw.Depots, raw.Locations, locIdx, typeIdx)
	if err != nil {
		return nil, err
	}

	nodes, err := buildNodes(raw, locIdx, typeIdx, depots, log)
	if err != nil {
		return nil, err
	}

	nw := network.Build(nodes, depots, loc, &cfg, planningHorizon)

	return &Instance{
		Network:        nw,
		VehicleTypes:   types,
		Config:         cfg,
		LocationIDs:    locIDs,
		DepotIDs:       depotIDs,
		VehicleTypeIDs: typeIDs,
	}, nil
}

func buildVehicleTypes(raw []rawVehicleType) (*vehicletype.Table, map[string]network.VehicleTypeIdx, []string, error) {
	sorted := append([]rawVehicleType(nil), raw...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seats < sorted[j].Seats })

	types := make([]vehicletype.Type, len(sorted))
	idx := make(map[string]network.VehicleTypeIdx, len(sorted))
	ids := make([]string, len(sorted))
	for i, rv := range sorted {
		if rv.ID == "" {
			return nil, nil, nil, fmt.Errorf("%w: vehicleTypes[%d] has empty id", ErrParse, i)
		}
		types[i] = vehicletype.Type{
			ID:                    rv.ID,
			Capacity:              rv.Capacity,
			Seats:                 rv.Seats,
			MaximalFormationCount: rv.MaximalFormationCount,
		}
		idx[rv.ID] = network.VehicleTypeIdx(i)
		ids[i] = rv.ID
	}
	return vehicletype.NewTable(types), idx, ids, nil
}

func indexLocations(raw []rawLocation) (map[string]network.LocationIdx, []string, error) {
	idx := make(map[string]network.LocationIdx, len(raw))
	ids := make([]string, len(raw))
	for i, rl := range raw {
		if rl.ID == "" {
			return nil, nil, fmt.Errorf("%w: locations[%d] has empty id", ErrParse, i)
		}
		idx[rl.ID] = network.LocationIdx(i)
		ids[i] = rl.ID
	}
	return idx, ids, nil
}

func buildConfig(p rawParameters) (config.Config, error) {
	cfg := config.Default()
	cfg.ForbidDeadHeadTrip = p.ForbidDeadHeadTrips
	if p.DayLimitThreshold != "" {
		d, err := timeutil.ParseISODuration(p.DayLimitThreshold)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: parameters.dayLimitThreshold: %v", ErrParse, err)
		}
		cfg.DayLimitThreshold = d
	}
	cfg.Shunting.Minimal = timeutil.FromSeconds(p.Shunting.MinimalDuration)
	cfg.Shunting.DeadHeadTrip = timeutil.FromSeconds(p.Shunting.DeadHeadTripDuration)
	if p.Maintenance != nil {
		cfg.Maintenance.MaximalDistance = timeutil.FromMeters(int64(p.Maintenance.MaximalDistance))
	}
	cfg.Costs = config.CostsConfig{
		Staff:        config.Cost(p.Costs.Staff),
		ServiceTrip:  config.Cost(p.Costs.ServiceTrip),
		Maintenance:  config.Cost(p.Costs.Maintenance),
		DeadHeadTrip: config.Cost(p.Costs.DeadHeadTrip),
		Idle:         config.Cost(p.Costs.Idle),
	}
	return cfg, nil
}

// planningHorizonOf derives the planning horizon from the earliest and
// latest timestamps named anywhere in the input, since the schema
// carries no explicit horizon field. Departure segment durations are
// not yet joined to their route segment at this point in the load, so
// this is a lower bound on the true horizon; buildLocations's own
// clamp against it is correspondingly conservative.
func planningHorizonOf(departures []rawDeparture, slots []rawMaintenanceSlot) timeutil.Duration {
	var earliest, latest timeutil.DateTime
	set := false
	consider := func(s string) {
		dt, err := timeutil.ParseDateTime(s)
		if err != nil {
			return
		}
		if !set {
			earliest, latest, set = dt, dt, true
			return
		}
		if dt.Less(earliest) {
			earliest = dt
		}
		if latest.Less(dt) {
			latest = dt
		}
	}
	for _, dep := range departures {
		for _, seg := range dep.Segments {
			consider(seg.Departure)
		}
	}
	for _, m := range slots {
		consider(m.Start)
		consider(m.End)
	}
	if !set {
		return timeutil.FromSeconds(7 * 24 * 3600)
	}
	span, err := latest.Sub(earliest)
	if err != nil {
		return timeutil.FromSeconds(7 * 24 * 3600)
	}
	return span
}

func buildLocations(raw []rawLocation, trips rawDeadHeadTrips, locIdx map[string]network.LocationIdx, maxDistance timeutil.Distance, horizon timeutil.Duration, log obslog.Logger) (*network.Locations, error) {
	n := len(raw)
	durations := make([][]timeutil.Duration, n)
	distances := make([][]timeutil.Distance, n)
	for i := range durations {
		durations[i] = make([]timeutil.Duration, n)
		distances[i] = make([]timeutil.Distance, n)
	}

	tripIdx := make([]network.LocationIdx, len(trips.Indices))
	for i, id := range trips.Indices {
		idx, ok := locIdx[id]
		if !ok {
			return nil, fmt.Errorf("%w: deadHeadTrips.indices[%d] references unknown location %q", ErrDomain, i, id)
		}
		tripIdx[i] = idx
	}
	for i, row := range trips.Durations {
		for j, sec := range row {
			if i >= len(tripIdx) || j >= len(tripIdx) {
				continue
			}
			d := timeutil.FromSeconds(sec)
			if horizon.Less(d) {
				log.Warn("dead-head duration exceeds planning horizon, clamping",
					zap.String("from", trips.Indices[i]), zap.String("to", trips.Indices[j]))
				d = horizon
			}
			durations[tripIdx[i]][tripIdx[j]] = d
		}
	}
	for i, row := range trips.Distances {
		for j, meters := range row {
			if i >= len(tripIdx) || j >= len(tripIdx) {
				continue
			}
			dist := timeutil.FromMeters(int64(meters))
			if !maxDistance.IsInfinity() && maxDistance.Less(dist) {
				log.Warn("dead-head distance exceeds MAX_DISTANCE, clamping",
					zap.String("from", trips.Indices[i]), zap.String("to", trips.Indices[j]))
				dist = maxDistance
			}
			distances[tripIdx[i]][tripIdx[j]] = dist
		}
	}

	dayLimit := make([]timeutil.Duration, n)
	for i, rl := range raw {
		if rl.DayLimit == "" {
			dayLimit[i] = timeutil.Infinity
			continue
		}
		d, err := timeutil.ParseISODuration(rl.DayLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: locations[%d].dayLimit: %v", ErrParse, i, err)
		}
		dayLimit[i] = d
	}
	return network.NewLocations(n, durations, distances, dayLimit), nil
}

func buildDepots(raw []rawDepot, locations []rawLocation, locIdx map[string]network.LocationIdx, typeIdx map[string]network.VehicleTypeIdx) ([]network.Depot, []string, error) {
	if len(raw) == 0 {
		// no depots declared: every location hosts an implicit unlimited
		// depot for every vehicle type.
		depots := make([]network.Depot, len(locations))
		ids := make([]string, len(locations))
		for i, rl := range locations {
			capacities := make(map[network.VehicleTypeIdx]int, len(typeIdx))
			for _, vt := range typeIdx {
				capacities[vt] = -1
			}
			depots[i] = network.Depot{ID: network.DepotIdx(i), Label: rl.ID, Location: locIdx[rl.ID], Capacity: capacities}
			ids[i] = rl.ID
		}
		return depots, ids, nil
	}

	depots := make([]network.Depot, len(raw))
	ids := make([]string, len(raw))
	for i, rd := range raw {
		loc, ok := locIdx[rd.Location]
		if !ok {
			return nil, nil, fmt.Errorf("%w: depots[%d] references unknown location %q", ErrDomain, i, rd.Location)
		}
		capacities := make(map[network.VehicleTypeIdx]int, len(rd.AllowedTypes))
		for _, at := range rd.AllowedTypes {
			vt, ok := typeIdx[at.VehicleType]
			if !ok {
				return nil, nil, fmt.Errorf("%w: depots[%d].allowedTypes references unknown vehicleType %q", ErrDomain, i, at.VehicleType)
			}
			c := -1
			if at.Capacity != nil {
				c = *at.Capacity
			} else if rd.Capacity != nil {
				c = *rd.Capacity
			}
			capacities[vt] = c
		}
		depots[i] = network.Depot{ID: network.DepotIdx(i), Label: rd.ID, Location: loc, Capacity: capacities}
		ids[i] = rd.ID
	}
	return depots, ids, nil
}

func buildNodes(raw rawInstance, locIdx map[string]network.LocationIdx, typeIdx map[string]network.VehicleTypeIdx, depots []network.Depot, log obslog.Logger) ([]network.Node, error) {
	var nodes []network.Node
	var id network.NodeIdx

	for _, d := range depots {
		nodes = append(nodes, network.Node{
			ID: id, Kind: network.StartDepot, Label: d.Label + "#start", DepotIdx: d.ID,
			StartLocation: d.Location, EndLocation: d.Location,
			StartTime: timeutil.Earliest, EndTime: timeutil.Earliest,
		})
		id++
		nodes = append(nodes, network.Node{
			ID: id, Kind: network.EndDepot, Label: d.Label + "#end", DepotIdx: d.ID,
			StartLocation: d.Location, EndLocation: d.Location,
			StartTime: timeutil.Latest, EndTime: timeutil.Latest,
		})
		id++
	}

	type segmentInfo struct {
		vt                    network.VehicleTypeIdx
		origin, destination   network.LocationIdx
		distance              float64
		duration              int64
		maximalFormationCount int
	}
	segByID := make(map[string]segmentInfo)
	for _, route := range raw.Routes {
		vt, ok := typeIdx[route.VehicleType]
		if !ok {
			return nil, fmt.Errorf("%w: routes %q references unknown vehicleType %q", ErrDomain, route.ID, route.VehicleType)
		}
		for _, seg := range route.Segments {
			origin, ok := locIdx[seg.Origin]
			if !ok {
				return nil, fmt.Errorf("%w: route segment %q references unknown location %q", ErrDomain, seg.ID, seg.Origin)
			}
			dest, ok := locIdx[seg.Destination]
			if !ok {
				return nil, fmt.Errorf("%w: route segment %q references unknown location %q", ErrDomain, seg.ID, seg.Destination)
			}
			segByID[seg.ID] = segmentInfo{
				vt: vt, origin: origin, destination: dest,
				distance: seg.Distance, duration: seg.Duration,
				maximalFormationCount: seg.MaximalFormationCount,
			}
		}
	}

	for _, dep := range raw.Departures {
		for _, seg := range dep.Segments {
			info, ok := segByID[seg.RouteSegment]
			if !ok {
				return nil, fmt.Errorf("%w: departure %q segment %q references unknown route segment %q", ErrDomain, dep.ID, seg.ID, seg.RouteSegment)
			}
			start, err := timeutil.ParseDateTime(seg.Departure)
			if err != nil {
				return nil, fmt.Errorf("%w: departure %q segment %q: %v", ErrParse, dep.ID, seg.ID, err)
			}
			demand := seg.Passengers
			if demand <= 0 {
				log.Warn("service trip has zero passengers, coercing to one",
					zap.String("departure", dep.ID), zap.String("segment", seg.ID))
				demand = 1
			}
			nodes = append(nodes, network.Node{
				ID: id, Kind: network.Service, Label: seg.ID,
				VehicleType:       info.vt,
				StartLocation:     info.origin,
				EndLocation:       info.destination,
				StartTime:         start,
				EndTime:           start.Add(timeutil.FromSeconds(info.duration)),
				ActivityDuration:  timeutil.FromSeconds(info.duration),
				TravelDistance:    timeutil.FromMeters(int64(info.distance)),
				Demand:            demand,
				Seated:            seg.Seated,
				MaxFormation:      info.maximalFormationCount,
			})
			id++
		}
	}

	for _, m := range raw.MaintenanceSlots {
		loc, ok := locIdx[m.Location]
		if !ok {
			return nil, fmt.Errorf("%w: maintenanceSlots %q references unknown location %q", ErrDomain, m.ID, m.Location)
		}
		start, err := timeutil.ParseDateTime(m.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: maintenanceSlots %q.start: %v", ErrParse, m.ID, err)
		}
		end, err := timeutil.ParseDateTime(m.End)
		if err != nil {
			return nil, fmt.Errorf("%w: maintenanceSlots %q.end: %v", ErrParse, m.ID, err)
		}
		nodes = append(nodes, network.Node{
			ID: id, Kind: network.Maintenance, Label: m.ID,
			StartLocation: loc, EndLocation: loc,
			StartTime: start, EndTime: end,
			TrackCount: m.TrackCount,
		})
		id++
	}

	return nodes, nil
}
