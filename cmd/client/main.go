package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"roomkit/config"
	"roomkit/internal/analytics"
	"roomkit/internal/api"
	"roomkit/internal/events"
	"roomkit/internal/faceauth"
	"roomkit/internal/feedback"
	"roomkit/internal/meeting"
	"roomkit/internal/notify"
	"roomkit/internal/session"
	rtsignal "roomkit/internal/signal"
	"roomkit/pkg/logger"
)

func main() {
	var (
		meetingCode = flag.String("meeting-code", "", "meeting code to join (xxx-xxxx-xxx)")
		guestName   = flag.String("guest-name", "", "display name when joining as a guest")
		email       = flag.String("email", "", "account email for login")
		password    = flag.String("password", "", "account password for login")
		faceImage   = flag.String("face-image", "", "path to a capture frame for face verification")
		rating      = flag.Int("rating", 0, "post-meeting feedback rating (1-5)")
		comments    = flag.String("comments", "", "post-meeting feedback comments")
	)
	flag.Parse()

	// Load config
	cfg := config.Load()

	// Initialize logger
	log := logger.New(cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event bus shared by all coordinators
	bus := events.NewBus()

	// Session store: redis-backed when configured, in-memory otherwise
	var adapter session.Adapter
	if cfg.Redis.Host != "" {
		redisAdapter, err := session.NewRedisAdapter(cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis: ", err)
		}
		defer redisAdapter.Close()
		adapter = redisAdapter
	} else {
		adapter = session.NewMemoryAdapter()
	}

	store := session.NewStore(adapter, bus, log)
	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, store, log)
	store.AttachAPI(apiClient)

	go func() {
		if err := store.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("session watch stopped: ", err)
		}
	}()

	// Log in when credentials are supplied; guests can still join
	// meetings that allow them.
	if *email != "" && *password != "" {
		user, err := store.Login(ctx, session.Credentials{Email: *email, Password: *password})
		if err != nil {
			log.Fatal("Login failed: ", err)
		}
		log.Info("Logged in as ", user.DisplayName())

		if *faceImage != "" {
			frame, err := os.ReadFile(*faceImage)
			if err != nil {
				log.Fatal("Failed to read face image: ", err)
			}
			faces := faceauth.NewClient(apiClient.WithTimeout(cfg.API.FaceAuthTimeout))
			decision, err := faces.Verify(ctx, user.ID, base64.StdEncoding.EncodeToString(frame))
			if err != nil {
				log.Fatal("Face verification failed: ", err)
			}
			if !decision.Allowed {
				log.Fatal("Face verification denied: ", decision.Status)
			}
			log.Info("Face verified with confidence ", decision.Confidence)
		}
	}

	// View-state coordinators
	notifier := notify.NewCenter()
	notifier.OnChange(func(n notify.Notification, visible bool) {
		if visible {
			fmt.Printf("[%s] %s\n", n.Severity, n.Message)
		}
	})

	panels := meeting.NewPanels()
	dialogs := meeting.NewDialogs()
	tabs := meeting.NewTabs(notifier)

	tokens := meeting.NewTokenService(cfg.LiveKit)
	meetings := meeting.NewService(apiClient, tokens)

	if *meetingCode == "" {
		log.Info("No meeting code supplied, exiting")
		return
	}

	check, err := meetings.Validate(ctx, *meetingCode)
	if err != nil {
		log.Fatal("Meeting validation failed: ", err)
	}
	if !check.Valid {
		log.Fatal("Invalid meeting code: ", *meetingCode)
	}

	info, err := meetings.Join(ctx, meeting.JoinRequest{
		MeetingCode:  *meetingCode,
		GuestName:    *guestName,
		AudioEnabled: true,
		VideoEnabled: true,
	})
	if err != nil {
		log.Fatal("Failed to join meeting: ", err)
	}
	log.Info("Joined meeting ", info.Meeting.Title, " as ", info.Role)
	fmt.Println("room token:", info.Token)
	fmt.Println("room url:  ", info.WsURL)

	// Command layer fed by the authoritative participant list
	roster := meeting.NewRoster()
	controller := meeting.NewController(roster, meetings.LoaderFor(info.Meeting.ID), notifier, bus, log)
	if user := store.CurrentUser(); user != nil {
		controller.SetLocalParticipant(meeting.Participant{
			ID:   user.ID,
			Name: user.DisplayName(),
			Role: meeting.Role(info.Role),
		})
	}

	if participants, err := meetings.Participants(ctx, info.Meeting.ID); err == nil {
		roster.Replace(participants)
		log.Info("Participants in meeting: ", roster.Len())
	} else {
		log.Error("Failed to load participants: ", err)
	}

	events.Subscribe(bus, func(ev meeting.ParticipantRemoved) {
		log.Info("Participant removed: ", ev.RemovedUserName, " by ", ev.RemovedByName)
	})

	// Signaling socket drives the screen-share dialogs
	signals := rtsignal.NewClient(cfg.Signaling.URL, store.Token(), log)
	signals.On(rtsignal.TypeScreenShareRequest, func(rtsignal.Signal) {
		dialogs.OpenScreenShareRequestDialog()
	})
	signals.On(rtsignal.TypeScreenShareStopped, func(sig rtsignal.Signal) {
		dialogs.OpenScreenShareStoppedDialog(sig.CallerName)
	})
	signals.On(rtsignal.TypeHandRaise, func(sig rtsignal.Signal) {
		notifier.Info(sig.CallerName + " raised their hand")
	})
	signals.On(rtsignal.TypeMeetingEnded, func(rtsignal.Signal) {
		panels.CloseAll()
		dialogs.CloseAllDialogs()
		for _, tab := range tabs.Tabs() {
			tabs.CloseTab(tab)
		}
		notifier.Warning("The meeting has been ended by the host")
	})

	go func() {
		if err := signals.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("signaling connection lost: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Leaving meeting...")
	if err := meetings.Leave(context.Background(), info.Meeting.ID); err != nil {
		log.Error("Leave failed: ", err)
	}

	if *rating > 0 {
		userID := ""
		if user := store.CurrentUser(); user != nil {
			userID = user.ID
		}
		form := feedback.NewForm(info.Meeting.ID, userID, feedback.NewClient(apiClient), log, nil)
		form.SetRating(*rating)
		form.SetComments(*comments)
		if id, err := form.Submit(context.Background()); err != nil {
			log.Error("Feedback submission failed: ", err)
		} else {
			log.Info("Feedback recorded: ", id)
		}
	}

	reports := analytics.NewClient(apiClient.WithTimeout(cfg.API.AnalyticsTimeout))
	if report, err := reports.Comprehensive(context.Background(), info.Meeting.ID); err == nil {
		log.Info("Meeting lasted ", report.DurationMinutes, " minutes with ",
			report.ParticipantCount, " participants")
	}

	cancel()
	log.Info("Shutdown complete")
}
