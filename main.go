package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"vibe-service/internal/auth"
	"vibe-service/internal/config"
	"vibe-service/internal/db"
	"vibe-service/internal/handlers"
	"vibe-service/internal/middleware"
	"vibe-service/internal/observability"
	"vibe-service/internal/rabbitmq"
	"vibe-service/internal/realtime"
	"vibe-service/internal/repositories"
	"vibe-service/internal/services"
	"vibe-service/internal/storage"
	"vibe-service/internal/telemetry"
	"vibe-service/internal/ws"
)

const serviceName = "vibe-service"

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	log.Printf("event publisher mode=%s %s", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))
	auditEmitter := telemetry.NewAuditEmitter(publisher, "audit.vibe", serviceName, cfg.Environment)

	store, err := storage.NewObjectStore(ctx, storage.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}

	profileRepo := repositories.NewProfileRepo(database)
	eventRepo := repositories.NewEventRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	friendshipRepo := repositories.NewFriendshipRepo(database)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	resolver := services.NewParticipantResolver(eventRepo, groupRepo)
	chatManager := services.NewChatSessionManager(chatRepo, messageRepo, profileRepo, eventRepo, resolver, cfg.FreeDailyChatLimit)
	eventService := services.NewEventService(eventRepo, friendshipRepo, store, cfg.EventTTL)
	groupService := services.NewGroupService(groupRepo, store)
	accountService := services.NewAccountService(profileRepo, tokens, store)
	matches := services.NewMatchHandshake(friendshipRepo)

	hub := ws.NewHub()
	listener := realtime.NewListener(cfg.DatabaseDSN, messageRepo, hub)
	go func() {
		if err := listener.Run(ctx); err != nil {
			log.Printf("realtime listener stopped: %v", err)
		}
	}()

	accountHandler := handlers.NewAccountHandler(accountService, profileRepo, auditEmitter)
	eventHandler := handlers.NewEventHandler(eventService, auditEmitter)
	groupHandler := handlers.NewGroupHandler(groupService, auditEmitter)
	chatHandler := handlers.NewChatHandler(chatManager, eventService, profileRepo, hub, auditEmitter)
	matchHandler := handlers.NewMatchHandler(matches, auditEmitter)
	chatWS := ws.NewChatWebSocketHandler(hub, chatManager, tokens)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, auditEmitter, hub, handlers.DebugStatus{
		PublisherMode:       rabbitmq.PublisherMode(publisher),
		PublisherNoopReason: rabbitmq.PublisherNoopReason(publisher),
		StorageEnabled:      cfg.MinioEndpoint != "",
		FreeDailyChatLimit:  cfg.FreeDailyChatLimit,
		EventTTL:            cfg.EventTTL,
	}, cfg.DebugRoutes)

	router.POST("/auth/signup", accountHandler.Signup)
	router.POST("/auth/login", accountHandler.Login)

	authMiddleware := middleware.AuthMiddleware(tokens)
	writeLimit := middleware.RateLimit(middleware.NewRateLimiter(cfg.WriteRatePerMinute, cfg.WriteRateBurst))
	api := router.Group("/", authMiddleware)

	api.GET("/me", accountHandler.Me)
	api.PUT("/me", accountHandler.UpdateMe)
	api.POST("/me/avatar", accountHandler.UploadAvatar)

	api.POST("/events", writeLimit, eventHandler.CreateEvent)
	api.GET("/events/nearby", eventHandler.Nearby)
	api.GET("/events/active", eventHandler.ActiveEvent)
	api.GET("/events/:id", eventHandler.GetEvent)
	api.DELETE("/events/:id", eventHandler.DeleteEvent)
	api.POST("/events/:id/privacy", eventHandler.TogglePrivacy)
	api.POST("/events/:id/attend", writeLimit, eventHandler.Attend)
	api.GET("/events/:id/attendees", eventHandler.Attendees)
	api.GET("/events/:id/hosts", eventHandler.Hosts)
	api.POST("/events/:id/hosts", eventHandler.InviteHost)
	api.POST("/events/:id/hosts/accept", eventHandler.AcceptHost)
	api.POST("/events/:id/join", writeLimit, chatHandler.JoinEvent)

	api.GET("/chats", chatHandler.ListChats)
	api.GET("/chats/:id/messages", chatHandler.GetChatMessages)
	api.POST("/chats/:id/messages", writeLimit, chatHandler.PostChatMessage)

	api.POST("/groups", groupHandler.CreateGroup)
	api.GET("/groups", groupHandler.ListGroups)
	api.POST("/groups/:id/members", groupHandler.AddMember)
	api.GET("/groups/:id/members", groupHandler.Members)

	api.POST("/users/:id/vibrar", writeLimit, matchHandler.Vibrar)
	api.GET("/users/:id/match", matchHandler.Status)
	api.GET("/friendships", matchHandler.ListFriendships)

	router.GET("/ws/chats/:id", chatWS.Handle)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "X-Device-ID"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("%s listening on :%s", serviceName, cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
