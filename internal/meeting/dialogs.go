package meeting

import "sync"

type DialogID string

const (
	DialogLeave              DialogID = "leave"
	DialogEndMeeting         DialogID = "endMeeting"
	DialogScreenShareRequest DialogID = "screenShareRequest"
	DialogShare              DialogID = "share"
	DialogCoHost             DialogID = "coHost"
	DialogRecording          DialogID = "recording"
	DialogRecordingMethod    DialogID = "recordingMethod"
	DialogScreenShareStopped DialogID = "screenShareStopped"
)

type CoHostAction string

const (
	CoHostPromote CoHostAction = "promote"
	CoHostDemote  CoHostAction = "demote"
)

// RecordingResult is what the recording-name dialog resolves with:
// either a confirmed name or a cancellation.
type RecordingResult struct {
	Confirmed bool
	Name      string
}

// RecordingGate is the one-shot future handed to whoever opened the
// recording-name dialog. It resolves exactly once, when the dialog is
// closed with a result. Force-closing the dialog leaves the gate
// pending forever; callers apply their own timeout.
type RecordingGate struct {
	ch chan RecordingResult
}

func (g *RecordingGate) Result() <-chan RecordingResult {
	return g.ch
}

// Dialogs owns the modal dialog flags. Unlike panels, dialogs are not
// mutually exclusive; each has an independent open/close pair.
type Dialogs struct {
	mu   sync.Mutex
	open map[DialogID]bool

	// meeting-link popup is shown on entry and can be minimized
	meetingLinkPopup     bool
	meetingLinkMinimized bool

	screenShareStoppedBy string

	coHostTarget *Participant
	coHostAction CoHostAction

	recordingGate *RecordingGate
}

func NewDialogs() *Dialogs {
	return &Dialogs{
		open:             make(map[DialogID]bool),
		meetingLinkPopup: true,
	}
}

func (d *Dialogs) IsOpen(id DialogID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open[id]
}

func (d *Dialogs) OpenLeaveDialog()  { d.set(DialogLeave, true) }
func (d *Dialogs) CloseLeaveDialog() { d.set(DialogLeave, false) }

func (d *Dialogs) OpenEndMeetingDialog()  { d.set(DialogEndMeeting, true) }
func (d *Dialogs) CloseEndMeetingDialog() { d.set(DialogEndMeeting, false) }

func (d *Dialogs) OpenScreenShareRequestDialog()  { d.set(DialogScreenShareRequest, true) }
func (d *Dialogs) CloseScreenShareRequestDialog() { d.set(DialogScreenShareRequest, false) }

func (d *Dialogs) OpenShareDialog()  { d.set(DialogShare, true) }
func (d *Dialogs) CloseShareDialog() { d.set(DialogShare, false) }

func (d *Dialogs) OpenRecordingMethodDialog()  { d.set(DialogRecordingMethod, true) }
func (d *Dialogs) CloseRecordingMethodDialog() { d.set(DialogRecordingMethod, false) }

// OpenCoHostDialog stores the target participant and the requested
// role change alongside the dialog flag.
func (d *Dialogs) OpenCoHostDialog(target Participant, action CoHostAction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.coHostTarget = &target
	d.coHostAction = action
	d.open[DialogCoHost] = true
}

func (d *Dialogs) CloseCoHostDialog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open[DialogCoHost] = false
	d.coHostTarget = nil
	d.coHostAction = ""
}

func (d *Dialogs) CoHostSelection() (Participant, CoHostAction, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.coHostTarget == nil {
		return Participant{}, "", false
	}
	return *d.coHostTarget, d.coHostAction, true
}

// OpenRecordingDialog opens the recording-name dialog and returns the
// gate that blocks the caller's continuation until the dialog closes.
func (d *Dialogs) OpenRecordingDialog() *RecordingGate {
	d.mu.Lock()
	defer d.mu.Unlock()
	gate := &RecordingGate{ch: make(chan RecordingResult, 1)}
	d.recordingGate = gate
	d.open[DialogRecording] = true
	return gate
}

// CloseRecordingDialog resolves the pending gate with result. A close
// without a matching open resolves nothing.
func (d *Dialogs) CloseRecordingDialog(result RecordingResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open[DialogRecording] = false
	if d.recordingGate != nil {
		d.recordingGate.ch <- result
		d.recordingGate = nil
	}
}

func (d *Dialogs) RecordingPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recordingGate != nil
}

func (d *Dialogs) OpenScreenShareStoppedDialog(stoppedBy string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.screenShareStoppedBy = stoppedBy
	d.open[DialogScreenShareStopped] = true
}

func (d *Dialogs) CloseScreenShareStoppedDialog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open[DialogScreenShareStopped] = false
	d.screenShareStoppedBy = ""
}

func (d *Dialogs) ScreenShareStoppedBy() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.screenShareStoppedBy
}

func (d *Dialogs) ToggleMeetingLinkPopup() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.meetingLinkPopup = !d.meetingLinkPopup
}

func (d *Dialogs) MinimizeMeetingLinkPopup() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.meetingLinkMinimized = true
	d.meetingLinkPopup = false
}

func (d *Dialogs) RestoreMeetingLinkPopup() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.meetingLinkMinimized = false
	d.meetingLinkPopup = true
}

func (d *Dialogs) MeetingLinkPopup() (visible, minimized bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.meetingLinkPopup, d.meetingLinkMinimized
}

// CloseAllDialogs resets every flag and drops stored references. A
// pending recording gate is discarded without being resolved; its
// holder stays blocked until their own timeout fires.
func (d *Dialogs) CloseAllDialogs() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id := range d.open {
		d.open[id] = false
	}
	d.screenShareStoppedBy = ""
	d.coHostTarget = nil
	d.coHostAction = ""
	d.recordingGate = nil
}

func (d *Dialogs) set(id DialogID, open bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open[id] = open
}
