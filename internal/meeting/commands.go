package meeting

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"roomkit/internal/events"
	"roomkit/internal/notify"
	"roomkit/pkg/errors"
	"roomkit/pkg/logger"
)

// Command types carried in the data-channel envelope. Peers run the
// same client and apply the matching mutation locally on receipt.
const (
	CommandForceMuteAudio    = "force_mute_audio"
	CommandAllowUnmuteAudio  = "allow_unmute_audio"
	CommandForceMuteVideo    = "force_mute_video"
	CommandAllowUnmuteVideo  = "allow_unmute_video"
	CommandParticipantRemove = "participant_removed"
)

const removedByHostReason = "removed_by_host_or_cohost"

// Deferred authoritative refresh after a removal, long enough for the
// data-channel signal to reach the backend's view.
const removeRefreshDelay = time.Second

// CommandMessage is the envelope broadcast over the room's reliable
// data channel. Delivery is reliable, ordering is not.
type CommandMessage struct {
	Type            string `json:"type"`
	TargetUserID    string `json:"target_user_id"`
	TargetUserName  string `json:"target_user_name"`
	IssuerID        string `json:"issuer_id"`
	IssuerName      string `json:"issuer_name"`
	Reason          string `json:"reason,omitempty"`
	ForceDisconnect bool   `json:"force_disconnect,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

// DataPublisher is the slice of the room handle the command layer
// needs: the ability to broadcast a reliable byte payload.
type DataPublisher interface {
	PublishData(ctx context.Context, payload []byte, reliable bool) error
}

// RosterLoaderFunc fetches the authoritative participant list.
type RosterLoaderFunc func(ctx context.Context) ([]Participant, error)

// ParticipantRemoved is published on the event bus so other UI
// regions (the video grid, stats widgets) can react to a removal.
type ParticipantRemoved struct {
	RemovedUserID   string
	RemovedUserName string
	RemovedBy       string
	RemovedByName   string
	Timestamp       int64
}

// Result is the outcome handed back to the UI for each command.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func failure(reason string) Result {
	return Result{Success: false, Error: reason}
}

// Controller translates host/co-host intents into an optimistic local
// roster mutation plus a CommandMessage broadcast. Failures after the
// optimistic step trigger an authoritative reload instead of a
// computed rollback.
type Controller struct {
	mu        sync.Mutex
	self      Participant
	publisher DataPublisher

	roster   *Roster
	loader   RosterLoaderFunc
	notifier *notify.Center
	bus      *events.Bus
	log      *logger.Logger

	now      func() time.Time
	schedule func(d time.Duration, fn func())
}

func NewController(roster *Roster, loader RosterLoaderFunc, notifier *notify.Center, bus *events.Bus, log *logger.Logger) *Controller {
	return &Controller{
		roster:   roster,
		loader:   loader,
		notifier: notifier,
		bus:      bus,
		log:      log,
		now:      time.Now,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// SetLocalParticipant records who is issuing commands.
func (c *Controller) SetLocalParticipant(p Participant) {
	c.mu.Lock()
	c.self = p
	c.mu.Unlock()
}

// SetPublisher installs the live room handle, or nil when the room is
// not connected.
func (c *Controller) SetPublisher(p DataPublisher) {
	c.mu.Lock()
	c.publisher = p
	c.mu.Unlock()
}

// SetClock and SetScheduler override time sources. Tests only.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *Controller) SetScheduler(schedule func(d time.Duration, fn func())) {
	c.mu.Lock()
	c.schedule = schedule
	c.mu.Unlock()
}

// MuteParticipant force-mutes the target's microphone: optimistic
// flip first, broadcast second.
func (c *Controller) MuteParticipant(ctx context.Context, participantID string) Result {
	self := c.localParticipant()
	if !self.HasHostPrivileges() {
		c.notifier.Error("Only hosts and co-hosts can mute participants")
		return failure("Insufficient permissions")
	}

	target, ok := c.roster.Find(participantID)
	if !ok {
		c.notifier.Error("Failed to mute: participant not found")
		return failure("Participant not found")
	}

	// Visible before the broadcast resolves.
	c.roster.SetAudioEnabled(participantID, false)

	if err := c.broadcast(ctx, CommandForceMuteAudio, target, nil); err != nil {
		c.log.Error("mute broadcast failed: ", err)
		c.notifier.Error("Failed to mute: " + errors.Message(err))
		c.reload(ctx)
		return failure(errors.Message(err))
	}

	c.notifier.Success(fmt.Sprintf("Muted %s's microphone", target.DisplayName()))
	return Result{Success: true}
}

// AllowUnmute grants the target permission to unmute. No optimistic
// mutation: the target flips its own flag when it acts on the grant.
func (c *Controller) AllowUnmute(ctx context.Context, participantID string) Result {
	self := c.localParticipant()
	if !self.HasHostPrivileges() {
		c.notifier.Error("Only hosts and co-hosts can unmute participants")
		return failure("Insufficient permissions")
	}

	target, ok := c.roster.Find(participantID)
	if !ok {
		c.notifier.Error("Failed to allow unmute: participant not found")
		return failure("Participant not found")
	}

	if err := c.broadcast(ctx, CommandAllowUnmuteAudio, target, nil); err != nil {
		c.log.Error("unmute broadcast failed: ", err)
		c.notifier.Error("Failed to allow unmute: " + errors.Message(err))
		return failure(errors.Message(err))
	}

	c.notifier.Success(fmt.Sprintf("Allowed %s to unmute", target.DisplayName()))
	return Result{Success: true}
}

// MuteVideo force-disables the target's camera.
func (c *Controller) MuteVideo(ctx context.Context, participantID string) Result {
	self := c.localParticipant()
	if !self.HasHostPrivileges() {
		c.notifier.Error("Only hosts and co-hosts can control video")
		return failure("Insufficient permissions")
	}

	target, ok := c.roster.Find(participantID)
	if !ok {
		c.notifier.Error("Failed to turn off video: participant not found")
		return failure("Participant not found")
	}

	c.roster.SetVideoEnabled(participantID, false)

	if err := c.broadcast(ctx, CommandForceMuteVideo, target, nil); err != nil {
		c.log.Error("video mute broadcast failed: ", err)
		c.notifier.Error("Failed to turn off video: " + errors.Message(err))
		c.reload(ctx)
		return failure(errors.Message(err))
	}

	c.notifier.Success(fmt.Sprintf("Turned off %s's camera", target.DisplayName()))
	return Result{Success: true}
}

// AllowVideo grants the target permission to re-enable its camera.
func (c *Controller) AllowVideo(ctx context.Context, participantID string) Result {
	self := c.localParticipant()
	if !self.HasHostPrivileges() {
		c.notifier.Error("Only hosts and co-hosts can control video")
		return failure("Insufficient permissions")
	}

	target, ok := c.roster.Find(participantID)
	if !ok {
		c.notifier.Error("Failed to allow camera: participant not found")
		return failure("Participant not found")
	}

	if err := c.broadcast(ctx, CommandAllowUnmuteVideo, target, nil); err != nil {
		c.log.Error("video permission broadcast failed: ", err)
		c.notifier.Error("Failed to allow camera: " + errors.Message(err))
		return failure(errors.Message(err))
	}

	c.notifier.Success(fmt.Sprintf("Allowed %s to turn on camera", target.DisplayName()))
	return Result{Success: true}
}

// RemoveParticipant drops the target from the meeting: optimistic
// removal and stats decrement, a bus event for other UI regions, a
// best-effort disconnect signal, and a deferred authoritative reload
// to reconcile with the backend.
func (c *Controller) RemoveParticipant(ctx context.Context, participantID string) Result {
	self := c.localParticipant()
	if !self.HasHostPrivileges() {
		c.notifier.Error("Only hosts and co-hosts can remove participants")
		return failure("Insufficient permissions")
	}

	if participantID == self.ID {
		c.notifier.Error("You cannot remove yourself from the meeting")
		return failure("Cannot remove self")
	}

	target, ok := c.roster.Find(participantID)
	if !ok {
		c.notifier.Error("Failed to remove participant: participant not found")
		return failure("Participant not found")
	}

	if target.IsHost() {
		c.notifier.Error("Cannot remove another host from the meeting")
		return failure("Cannot remove host")
	}

	c.roster.Remove(participantID)

	events.Publish(c.bus, ParticipantRemoved{
		RemovedUserID:   target.ID,
		RemovedUserName: target.DisplayName(),
		RemovedBy:       self.ID,
		RemovedByName:   self.DisplayName(),
		Timestamp:       c.now().UnixMilli(),
	})

	c.notifier.Info(fmt.Sprintf("Removing %s from the meeting...", target.DisplayName()))

	// The disconnect signal is best effort: the deferred reload
	// reconciles either way.
	if err := c.broadcast(ctx, CommandParticipantRemove, target, func(msg *CommandMessage) {
		msg.Reason = removedByHostReason
		msg.ForceDisconnect = true
	}); err != nil {
		c.log.Error("removal signal failed: ", err)
	}

	c.notifier.Success(fmt.Sprintf("%s has been removed from the meeting", target.DisplayName()))

	c.mu.Lock()
	schedule := c.schedule
	c.mu.Unlock()
	schedule(removeRefreshDelay, func() {
		c.reload(context.Background())
	})

	return Result{Success: true}
}

func (c *Controller) broadcast(ctx context.Context, commandType string, target Participant, extra func(*CommandMessage)) error {
	c.mu.Lock()
	publisher := c.publisher
	self := c.self
	now := c.now
	c.mu.Unlock()

	if publisher == nil {
		return errors.TransportUnavailable("room not available")
	}

	msg := CommandMessage{
		Type:           commandType,
		TargetUserID:   target.ID,
		TargetUserName: target.DisplayName(),
		IssuerID:       self.ID,
		IssuerName:     self.DisplayName(),
		Timestamp:      now().UnixMilli(),
	}
	if extra != nil {
		extra(&msg)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return publisher.PublishData(ctx, payload, true)
}

// reload replaces the roster with the backend's view, discarding any
// optimistic change.
func (c *Controller) reload(ctx context.Context) {
	if c.loader == nil {
		return
	}
	participants, err := c.loader(ctx)
	if err != nil {
		c.log.Error("participant reload failed: ", err)
		return
	}
	c.roster.Replace(participants)
}

func (c *Controller) localParticipant() Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.self
}
