package feedback

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"roomkit/pkg/errors"
	"roomkit/pkg/logger"
)

type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

const (
	CommentsMaxLen        = 4000
	commentsWarnThreshold = 3800

	validationDebounce = 500 * time.Millisecond
	successCloseDelay  = 5 * time.Second
)

var validate = validator.New()

// RemoteValidator and Submitter are the slices of the feedback API the
// form needs. *Client satisfies both.
type RemoteValidator interface {
	Validate(ctx context.Context, sub Submission) (map[string]string, error)
}

type Submitter interface {
	Create(ctx context.Context, sub Submission) (string, error)
}

// Service is what the form talks to; usually a *Client.
type Service interface {
	RemoteValidator
	Submitter
}

// Form drives the feedback flow: editing with debounced non-blocking
// remote validation, a single submit, then a read-only success view
// whose auto-advance timer invokes the caller's close callback.
type Form struct {
	mu sync.Mutex

	state       State
	sub         Submission
	fieldErrors map[string]string
	errMsg      string
	feedbackID  string

	remote    RemoteValidator
	submitter Submitter
	log       *logger.Logger

	pending    map[string]*time.Timer
	debounce   time.Duration
	closeDelay time.Duration
	onClose    func()
}

func NewForm(meetingID, userID string, svc Service, log *logger.Logger, onClose func()) *Form {
	return &Form{
		state: StateEditing,
		sub: Submission{
			MeetingID:    meetingID,
			UserID:       userID,
			FeedbackType: "General",
		},
		fieldErrors: make(map[string]string),
		remote:      svc,
		submitter:   svc,
		log:         log,
		pending:     make(map[string]*time.Timer),
		debounce:    validationDebounce,
		closeDelay:  successCloseDelay,
		onClose:     onClose,
	}
}

// SetIntervals overrides the debounce and auto-close delays. Tests only.
func (f *Form) SetIntervals(debounce, closeDelay time.Duration) {
	f.mu.Lock()
	f.debounce = debounce
	f.closeDelay = closeDelay
	f.mu.Unlock()
}

func (f *Form) SetRating(rating int) {
	f.mu.Lock()
	f.sub.Rating = rating
	f.mu.Unlock()
	f.scheduleValidation("Rating")
}

func (f *Form) SetComments(comments string) {
	f.mu.Lock()
	f.sub.Comments = comments
	f.mu.Unlock()
	f.scheduleValidation("Comments")
}

func (f *Form) SetType(feedbackType string) {
	f.mu.Lock()
	f.sub.FeedbackType = feedbackType
	f.mu.Unlock()
	f.scheduleValidation("Feedback_Type")
}

// CommentsNearCap reports whether the comment length warrants the
// near-limit warning.
func (f *Form) CommentsNearCap() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sub.Comments) >= commentsWarnThreshold
}

// Submit validates locally, then posts. Local failure keeps the form
// in editing with no network call. Remote failure also returns to
// editing, with the surfaced message. Success arms the auto-close
// timer.
func (f *Form) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	sub := f.sub
	f.mu.Unlock()

	if err := validate.Struct(sub); err != nil {
		f.mu.Lock()
		f.state = StateEditing
		f.fieldErrors = localErrors(err)
		f.mu.Unlock()
		return "", errors.ValidationFailed("feedback form has invalid fields")
	}

	f.mu.Lock()
	f.state = StateSubmitting
	f.errMsg = ""
	f.mu.Unlock()

	id, err := f.submitter.Create(ctx, sub)
	if err != nil {
		f.mu.Lock()
		f.state = StateEditing
		f.errMsg = err.Error()
		f.mu.Unlock()
		return "", err
	}

	f.mu.Lock()
	f.state = StateSuccess
	f.feedbackID = id
	closeDelay := f.closeDelay
	onClose := f.onClose
	f.mu.Unlock()

	// The success view's countdown is cosmetic; this timer is what
	// actually closes the flow.
	if onClose != nil {
		time.AfterFunc(closeDelay, onClose)
	}
	return id, nil
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

func (f *Form) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Form) FeedbackID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedbackID
}

// scheduleValidation is the cancellable scheduled task: each new
// input replaces the previously scheduled validation for that field.
func (f *Form) scheduleValidation(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting || f.state == StateSuccess {
		return
	}
	if timer, ok := f.pending[field]; ok {
		timer.Stop()
	}
	f.state = StateValidating
	f.pending[field] = time.AfterFunc(f.debounce, func() { f.runValidation(field) })
}

func (f *Form) runValidation(field string) {
	f.mu.Lock()
	delete(f.pending, field)
	sub := f.sub
	remote := f.remote
	f.mu.Unlock()

	var remoteErrs map[string]string
	if remote != nil {
		var err error
		remoteErrs, err = remote.Validate(context.Background(), sub)
		if err != nil {
			// A failed validation round never stops editing or
			// submission.
			f.log.Debug("remote validation failed: ", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.fieldErrors {
		delete(f.fieldErrors, k)
	}
	for k, v := range remoteErrs {
		f.fieldErrors[k] = v
	}
	if len(f.pending) == 0 && f.state == StateValidating {
		f.state = StateEditing
	}
}

func localErrors(err error) map[string]string {
	out := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range verrs {
			out[e.Field()] = e.Field() + " " + e.Tag()
		}
	} else {
		out["form"] = err.Error()
	}
	return out
}
