package meeting

import "sync"

type Stats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Roster is the single-owner local view of the participant list.
// Only the command layer and the authoritative reload path mutate it;
// everyone else reads snapshots.
type Roster struct {
	mu    sync.Mutex
	list  []Participant
	stats Stats
}

func NewRoster() *Roster {
	return &Roster{}
}

// Replace installs an authoritative participant list, discarding any
// optimistic local changes.
func (r *Roster) Replace(participants []Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append([]Participant(nil), participants...)
	r.stats = Stats{Total: len(participants), Active: len(participants)}
}

func (r *Roster) Snapshot() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Participant(nil), r.list...)
}

func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.list)
}

func (r *Roster) Find(id string) (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.list {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

func (r *Roster) SetAudioEnabled(id string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.list {
		if r.list[i].ID == id {
			r.list[i].AudioEnabled = enabled
			return true
		}
	}
	return false
}

func (r *Roster) SetVideoEnabled(id string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.list {
		if r.list[i].ID == id {
			r.list[i].VideoEnabled = enabled
			return true
		}
	}
	return false
}

func (r *Roster) SetHandRaised(id string, raised bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.list {
		if r.list[i].ID == id {
			r.list[i].HandRaised = raised
			return true
		}
	}
	return false
}

// Remove drops the participant and decrements the local statistics
// immediately, ahead of the backend's eventual view.
func (r *Roster) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.list {
		if r.list[i].ID == id {
			r.list = append(r.list[:i], r.list[i+1:]...)
			r.stats.Total = max(0, r.stats.Total-1)
			r.stats.Active = max(0, r.stats.Active-1)
			return true
		}
	}
	return false
}

func (r *Roster) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
