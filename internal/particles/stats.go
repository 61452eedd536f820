package particles

// Stats counts lifecycle events since the manager was created.
type Stats struct {
	Spawned    int `json:"spawned"`
	Dropped    int `json:"dropped"`    // rejected at capacity
	Suppressed int `json:"suppressed"` // rejected while inactive
	Bursts     int `json:"bursts"`
	Expired    int `json:"expired"`
	Evicted    int `json:"evicted"` // oldest-first removals by the reaper
	Pruned     int `json:"pruned"`  // detached out of band, dropped by the reaper
	Cleared    int `json:"cleared"`
	Reaps      int `json:"reaps"`
}

// Removed is the total number of particles that left the collection.
func (s Stats) Removed() int {
	return s.Expired + s.Evicted + s.Pruned + s.Cleared
}
