package main

import (
	"fmt"

	"github.com/Faultbox/midgard-nav/internal/pathfind"
	"github.com/Faultbox/midgard-nav/internal/scenario"
)

// selectOrders picks orders by name, or returns all when names is empty.
func selectOrders(orders []scenario.Order, names []string) ([]scenario.Order, error) {
	if len(names) == 0 {
		return orders, nil
	}
	byName := make(map[string]scenario.Order, len(orders))
	for _, o := range orders {
		byName[o.Name] = o
	}
	out := make([]scenario.Order, 0, len(names))
	for _, name := range names {
		o, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("no order named %q", name)
		}
		out = append(out, o)
	}
	return out, nil
}

// requestFor builds the search request for o. The mover is routed from the
// order's start, so each order sees the scenario's own unit layout.
func requestFor(s *scenario.Scenario, o scenario.Order) pathfind.Request {
	return pathfind.Request{
		Start:          o.Start,
		Goal:           o.Goal,
		Mover:          s.Mover,
		Units:          s.Units,
		AttackDistance: o.AttackDistance,
	}
}

func sameRoute(a, b pathfind.Result) bool {
	if a.Reason != b.Reason || len(a.Waypoints) != len(b.Waypoints) {
		return false
	}
	for i := range a.Waypoints {
		if a.Waypoints[i] != b.Waypoints[i] {
			return false
		}
	}
	return true
}
