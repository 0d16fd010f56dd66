package ioschema

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/objective"
	"github.com/railsched/railsched/schedule"
)

// RunInfo is the output document's `info` object. Timestamp is stamped
// by the CLI layer, not by the core; the run id the CLI generates goes
// only into its log lines and is not part of RunInfo.
type RunInfo struct {
	RunningTime     time.Duration
	NumberOfThreads int
	Timestamp       time.Time
	Hostname        string
}

type resultDocument struct {
	Info           infoDoc      `json:"info"`
	ObjectiveValue []string     `json:"objectiveValue"`
	Schedule       []vehicleDoc `json:"schedule"`
}

type infoDoc struct {
	RunningTime     string    `json:"runningTime"`
	NumberOfThreads int       `json:"numberOfThreads"`
	Timestamp       time.Time `json:"timestamp"`
	Hostname        string    `json:"hostname"`
}

type vehicleDoc struct {
	VehicleType string         `json:"vehicleType"`
	StartDepot  string         `json:"startDepot"`
	EndDepot    string         `json:"endDepot"`
	Tour        []tourEntryDoc `json:"tour"`
}

// tourEntryDoc externally tags one of DeadHeadTrip/ServiceTrip/
// Maintenance: exactly one pointer is non-nil, and the JSON object
// carries that single key.
type tourEntryDoc struct {
	DeadHeadTrip *deadHeadTripDoc `json:"DeadHeadTrip,omitempty"`
	ServiceTrip  *serviceTripDoc  `json:"ServiceTrip,omitempty"`
	Maintenance  *maintenanceDoc  `json:"Maintenance,omitempty"`
}

type deadHeadTripDoc struct {
	From        string `json:"from"`
	To          string `json:"to"`
	DistanceM   int64  `json:"distanceMeters"`
	DurationSec int64  `json:"durationSeconds"`
}

type serviceTripDoc struct {
	ID              string `json:"id"`
	Demand          int    `json:"demand"`
	Seated          int    `json:"seated"`
	CoveredSeats    int    `json:"coveredSeats"`
	CoveredCapacity int    `json:"coveredCapacity"`
}

type maintenanceDoc struct {
	ID         string `json:"id"`
	TrackCount int    `json:"trackCount"`
}

// WriteResult serializes a solved schedule and its objective value to
// w as the result JSON document, alongside run metadata.
func WriteResult(w io.Writer, s *schedule.Schedule, value objective.ObjectiveValue, info RunInfo) error {
	doc := resultDocument{
		Info: infoDoc{
			RunningTime:     info.RunningTime.String(),
			NumberOfThreads: info.NumberOfThreads,
			Timestamp:       info.Timestamp,
			Hostname:        info.Hostname,
		},
		ObjectiveValue: value.Components(),
	}

	nw := s.Network()
	for _, v := range s.Vehicles() {
		t, err := s.TourOf(v)
		if err != nil {
			return fmt.Errorf("ioschema: tour of vehicle %s: %w", v, err)
		}
		vt, err := s.TypeOf(v)
		if err != nil {
			return fmt.Errorf("ioschema: type of vehicle %s: %w", v, err)
		}

		startIdx, ok := t.StartDepot()
		if !ok {
			return fmt.Errorf("ioschema: vehicle %s has no start depot", v)
		}
		endIdx, ok := t.EndDepot()
		if !ok {
			return fmt.Errorf("ioschema: vehicle %s has no end depot", v)
		}

		vdoc := vehicleDoc{
			VehicleType: s.VehicleTypes().Get(vt).ID,
			StartDepot:  nw.Node(startIdx).Label,
			EndDepot:    nw.Node(endIdx).Label,
		}

		nodes := t.AllNodes()
		for i, idx := range nodes {
			node := nw.Node(idx)
			if i > 0 {
				prev := nw.Node(nodes[i-1])
				if prev.EndLocation != node.StartLocation {
					dist, _ := nw.DeadHeadDistanceBetween(nodes[i-1], idx).InMeters()
					vdoc.Tour = append(vdoc.Tour, tourEntryDoc{DeadHeadTrip: &deadHeadTripDoc{
						From:        prev.Label,
						To:          node.Label,
						DistanceM:   dist,
						DurationSec: nw.DeadHeadTimeBetween(nodes[i-1], idx).InSeconds(),
					}})
				}
			}
			switch node.Kind {
			case network.Service:
				covering := s.CoveredBy(idx)
				vdoc.Tour = append(vdoc.Tour, tourEntryDoc{ServiceTrip: &serviceTripDoc{
					ID:              node.Label,
					Demand:          node.Demand,
					Seated:          node.Seated,
					CoveredSeats:    covering.Seats(),
					CoveredCapacity: covering.Capacity(),
				}})
			case network.Maintenance:
				vdoc.Tour = append(vdoc.Tour, tourEntryDoc{Maintenance: &maintenanceDoc{
					ID:         node.Label,
					TrackCount: node.TrackCount,
				}})
			}
		}

		doc.Schedule = append(doc.Schedule, vdoc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
