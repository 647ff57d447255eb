package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/config"
	"github.com/noah-isme/edudesk-api/internal/database"
	"github.com/noah-isme/edudesk-api/internal/handler"
	"github.com/noah-isme/edudesk-api/internal/middleware"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
	"github.com/noah-isme/edudesk-api/internal/router"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/session"
	cloud "github.com/noah-isme/edudesk-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Course{},
		&models.Batch{},
		&models.Student{},
		&models.Enrollment{},
		&models.AttendanceRecord{},
		&models.CompensationRequest{},
		&models.Payment{},
		&models.Employee{},
		&models.PayrollEntry{},
		&models.Message{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	var storage service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		storage = uploader
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	compensationRepo := repository.NewCompensationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	sessions := session.NewStore(redisClient, cfg.SessionTTL, cfg.AuthResolveTimeout, logger)
	publisher := service.NewEventPublisher(natsConn, logger)
	media := service.NewMediaService(storage, cfg.MaxUploadSizeMB, logger)

	authService := service.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.JWTRefreshSecret, validate, logger)
	catalogService := service.NewCatalogService(branchRepo, courseRepo, batchRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, userRepo, batchRepo, media, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentRepo, batchRepo, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, enrollmentRepo, redisClient, cfg.SummaryCacheTTL, validate, logger)
	compensationService := service.NewCompensationService(compensationRepo, batchRepo, studentRepo, publisher, validate, logger)
	paymentService := service.NewPaymentService(paymentRepo, studentRepo, media, validate, logger)
	employeeService := service.NewEmployeeService(employeeRepo, validate, logger)
	messageService := service.NewMessageService(messageRepo, userRepo, publisher, validate, logger)
	dashboardService := service.NewDashboardService(studentRepo, employeeRepo, branchRepo, paymentRepo, compensationRepo, enrollmentRepo, attendanceService, redisClient, cfg.SummaryCacheTTL, logger)
	seedService := service.NewSeedService(userRepo, branchRepo, courseRepo, cfg.SeedEnabled, cfg.SeedToken, logger)
	notifier := service.NewNotifierService(natsConn, logger)
	orchestrator := service.NewCompensationOrchestrator(natsConn, attendanceService, enrollmentRepo, logger)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	if err := notifier.Start(runCtx); err != nil {
		log.Fatalf("failed to start notifier: %v", err)
	}
	defer notifier.Stop()

	if err := orchestrator.Start(runCtx); err != nil {
		log.Fatalf("failed to start compensation orchestrator: %v", err)
	}
	defer orchestrator.Stop()

	authHandler := handler.NewAuthHandler(authService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, logger)
	compensationHandler := handler.NewCompensationHandler(compensationService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	employeeHandler := handler.NewEmployeeHandler(employeeService, logger)
	messageHandler := handler.NewMessageHandler(messageService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	notificationHandler := handler.NewNotificationHandler(notifier, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         authHandler,
		StudentHandler:      studentHandler,
		CatalogHandler:      catalogHandler,
		EnrollmentHandler:   enrollmentHandler,
		AttendanceHandler:   attendanceHandler,
		CompensationHandler: compensationHandler,
		PaymentHandler:      paymentHandler,
		EmployeeHandler:     employeeHandler,
		MessageHandler:      messageHandler,
		DashboardHandler:    dashboardHandler,
		NotificationHandler: notificationHandler,
		SeedHandler:         seedHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		SessionResolver:     sessions,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
