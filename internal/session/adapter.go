package session

import "context"

// Snapshot is the persisted slice of the session: two tokens and the
// cached user profile.
type Snapshot struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

func (s Snapshot) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// Adapter is the persistence and cross-instance sync boundary for the
// session. Watch delivers snapshots written by OTHER instances (the
// analog of another browser tab updating shared storage); an
// adapter's own Save must not echo back to its own watcher.
type Adapter interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
	Watch(ctx context.Context, onChange func(Snapshot)) error
}
