// stats.go
//
// Stats is a lock-free snapshot of submap sizing, useful for confirming
// growth behavior in tests and for operational visibility in the demo
// pipeline (how many submaps did the MAC/IP/port tables end up with?).

package cmap

// SubmapStats describes one submap's occupancy.
type SubmapStats struct {
	Capacity   int
	NumValid   int
	LoadFactor float64
}

// Stats describes the whole container's occupancy.
type Stats struct {
	NumSubmaps int
	NumEntries int
	Submaps    []SubmapStats
}

// Stats takes a lock-free snapshot of the container's current shape.
func (m *CMap[K, V]) Stats() Stats {
	live := m.liveSubmaps()
	s := Stats{
		NumSubmaps: live,
		NumEntries: m.Len(),
		Submaps:    make([]SubmapStats, live),
	}
	for i := 0; i < live; i++ {
		sm := m.submapAt(i)
		cap := sm.capacity()
		valid := int(sm.numValid())
		s.Submaps[i] = SubmapStats{
			Capacity:   cap,
			NumValid:   valid,
			LoadFactor: float64(valid) / float64(cap),
		}
	}
	return s
}
