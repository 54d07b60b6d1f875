package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	api "tasko-backend/cmd/api"
	assistantDelivery "tasko-backend/internal/assistant/delivery"
	assistantUsecase "tasko-backend/internal/assistant/usecase"
	notificationDelivery "tasko-backend/internal/notification/delivery"
	notificationdomain "tasko-backend/internal/notification/domain"
	"tasko-backend/internal/notification/dispatcher"
	notificationRepo "tasko-backend/internal/notification/repository"
	notificationUsecase "tasko-backend/internal/notification/usecase"
	"tasko-backend/internal/scanner"
	scheduleDelivery "tasko-backend/internal/schedule/delivery"
	scheduledomain "tasko-backend/internal/schedule/domain"
	scheduleRepo "tasko-backend/internal/schedule/repository"
	scheduleUsecase "tasko-backend/internal/schedule/usecase"
	taskDelivery "tasko-backend/internal/task/delivery"
	taskdomain "tasko-backend/internal/task/domain"
	taskRepo "tasko-backend/internal/task/repository"
	taskUsecase "tasko-backend/internal/task/usecase"
	"tasko-backend/pkg/ai"
	"tasko-backend/pkg/config"
	"tasko-backend/pkg/database"
	"tasko-backend/pkg/events"
	"tasko-backend/pkg/fcm"
	"tasko-backend/pkg/hub"
	"tasko-backend/pkg/telegram"

	"gorm.io/gorm"
)

// app holds the wired components shared by every command.
type app struct {
	cfg           *config.Config
	db            *gorm.DB
	hub           *hub.Hub
	dispatcher    *dispatcher.Dispatcher
	publisher     *events.Publisher
	tasks         taskUsecase.TaskUsecase
	schedules     scheduleUsecase.ScheduleUsecase
	notifications notificationUsecase.NotificationUsecase
	scanner       *scanner.Scanner
}

// newApp connects the database, migrates, and wires repositories, usecases
// and notification sinks. live adds the WebSocket hub, which only makes
// sense for the long-running server.
func newApp(ctx context.Context, cfg *config.Config, live bool) (*app, error) {
	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&taskdomain.Task{}, &notificationdomain.Notification{}, &scheduledomain.WeeklySchedule{}, &scheduledomain.Slot{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	a := &app{cfg: cfg, db: db}

	var sinks []dispatcher.Sink
	if live {
		a.hub = hub.New(cfg.FrontendURL)
		sinks = append(sinks, dispatcher.HubSink(a.hub))
	}
	sinks = append(sinks, a.optionalSinks(ctx)...)
	a.dispatcher = dispatcher.New(sinks...)
	log.Printf("[App] Notification sinks: %s", strings.Join(a.dispatcher.Sinks(), ", "))

	// Initialize repositories (dependency injection)
	tasks := taskRepo.NewGormTaskRepository(db)
	schedules := scheduleRepo.NewGormScheduleRepository(db)
	notifications := notificationRepo.NewGormNotificationRepository(db)

	// Initialize use cases
	a.tasks = taskUsecase.NewTaskUsecase(tasks, cfg.Location)
	a.schedules = scheduleUsecase.NewScheduleUsecase(schedules, tasks, scheduleUsecase.Options{
		Policy:   scheduleUsecase.ParseSelectionPolicy(cfg.SlotTieBreak),
		Anchor:   scheduleUsecase.ParseCadenceAnchor(cfg.CadenceAnchor),
		Location: cfg.Location,
	})
	a.notifications = notificationUsecase.NewNotificationUsecase(notifications, a.dispatcher)
	a.scanner = scanner.New(tasks, a.schedules, a.notifications, scanner.Config{
		DueSoonWindow:  cfg.DueSoonWindow,
		GenerationDays: cfg.GenerationDays,
		Location:       cfg.Location,
	})
	return a, nil
}

// optionalSinks connects the external channels that are configured. A sink
// that fails to start is logged and left out.
func (a *app) optionalSinks(ctx context.Context) []dispatcher.Sink {
	cfg := a.cfg
	var sinks []dispatcher.Sink

	if cfg.FirebaseCredentials != "" {
		client, err := fcm.NewClient(ctx, cfg.FirebaseCredentials, cfg.FCMTopic)
		if err != nil {
			log.Printf("[WARN] FCM disabled: %v", err)
		} else {
			sinks = append(sinks, dispatcher.FCMSink(client))
		}
	}

	if cfg.TelegramToken != "" {
		notifier, err := telegram.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("[WARN] Telegram disabled: %v", err)
		} else {
			sinks = append(sinks, dispatcher.TelegramSink(notifier))
		}
	}

	if cfg.GoogleProjectID != "" {
		// Accept both "projects/p/topics/name" and the short name
		topicName := cfg.PubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}
		publisher, err := events.NewPublisher(ctx, cfg.GoogleProjectID, topicName, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[WARN] Pub/Sub disabled: %v", err)
		} else {
			a.publisher = publisher
			sinks = append(sinks, dispatcher.PubSubSink(publisher))
		}
	}

	return sinks
}

// routes builds the HTTP handlers, including the AI interpreter whose Ollama
// settings can be changed at runtime.
func (a *app) routes() (api.Routes, error) {
	settings := api.NewRuntimeSettings(a.cfg.OllamaBaseURL, a.cfg.OllamaModel)

	interpreter, err := ai.NewInterpreter(ai.Config{
		Provider:         ai.ProviderType(a.cfg.AIProvider),
		OpenAIAPIKey:     a.cfg.OpenAIAPIKey,
		OpenAIModel:      a.cfg.OpenAIModel,
		GeminiAPIKey:     a.cfg.GeminiApiKey,
		GetOllamaBaseURL: settings.OllamaBaseURL,
		GetOllamaModel:   settings.OllamaModel,
	})
	if err != nil {
		return api.Routes{}, fmt.Errorf("init AI interpreter: %w", err)
	}
	log.Printf("[AI] Interpreter chain: %s", strings.Join(interpreter.Providers(), " -> "))

	// A nil *hub.Hub must not become a non-nil http.Handler
	var live http.Handler
	if a.hub != nil {
		live = a.hub
	}

	return api.Routes{
		Tasks:         taskDelivery.NewTaskHandler(a.tasks),
		Schedules:     scheduleDelivery.NewScheduleHandler(a.schedules, a.cfg.Location),
		Notifications: notificationDelivery.NewNotificationHandler(a.notifications, live),
		Assistant:     assistantDelivery.NewAssistantHandler(assistantUsecase.NewAssistantUsecase(interpreter, a.tasks)),
		Settings:      api.NewSettingsHandler(settings),
	}, nil
}

// close waits for pending deliveries and releases connections.
func (a *app) close() {
	a.dispatcher.Wait()
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Printf("[PubSub] Close failed: %v", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
