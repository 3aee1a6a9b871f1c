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

	"github.com/academico-latam/academico-api/internal/config"
	"github.com/academico-latam/academico-api/internal/database"
	"github.com/academico-latam/academico-api/internal/handler"
	"github.com/academico-latam/academico-api/internal/middleware"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/router"
	"github.com/academico-latam/academico-api/internal/scope"
	"github.com/academico-latam/academico-api/internal/service"
	"github.com/academico-latam/academico-api/internal/token"
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
		&models.DirectorProfile{},
		&models.TeacherProfile{},
		&models.GuardianProfile{},
		&models.StudentProfile{},
		&models.AcademicYear{},
		&models.Level{},
		&models.Course{},
		&models.Subject{},
		&models.CourseSubject{},
		&models.EvaluationPlan{},
		&models.Grade{},
		&models.Attendance{},
		&models.Event{},
		&models.Communication{},
		&models.CourseMessage{},
		&models.AuditRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignmentRepo := repository.NewCourseSubjectRepository(db)
	planRepo := repository.NewEvaluationPlanRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	eventRepo := repository.NewEventRepository(db)
	communicationRepo := repository.NewCommunicationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	txManager := repository.NewTxManager(db)

	tokens := token.NewService(cfg.JWTSecret, logger)
	resolver := scope.NewResolver(profileRepo, assignmentRepo)

	auditService := service.NewAuditService(auditRepo, logger)
	authService := service.NewAuthService(userRepo, tokens, validate, logger)
	adminService := service.NewAdminService(userRepo, txManager, auditService, validate, logger)
	directorService := service.NewDirectorService(service.DirectorDeps{
		Courses:     courseRepo,
		Subjects:    subjectRepo,
		Years:       yearRepo,
		Assignments: assignmentRepo,
		Profiles:    profileRepo,
		Events:      eventRepo,
		Messages:    communicationRepo,
		Grades:      gradeRepo,
		Attendance:  attendanceRepo,
		Tx:          txManager,
		Audit:       auditService,
	}, validate, logger)
	dashboardService := service.NewDirectorDashboardService(statsRepo, attendanceRepo, redisClient, cfg.DashboardCacheTTL, logger)
	teacherService := service.NewTeacherService(service.TeacherDeps{
		Resolver:    resolver,
		Assignments: assignmentRepo,
		Profiles:    profileRepo,
		Plans:       planRepo,
		Grades:      gradeRepo,
		Attendance:  attendanceRepo,
		Tx:          txManager,
		Audit:       auditService,
	}, validate, logger)
	guardianService := service.NewGuardianService(resolver, profileRepo, gradeRepo, attendanceRepo, communicationRepo, logger)
	studentService := service.NewStudentService(service.StudentDeps{
		Resolver:   resolver,
		Grades:     gradeRepo,
		Attendance: attendanceRepo,
		Plans:      planRepo,
		Events:     eventRepo,
		Messages:   communicationRepo,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		AdminHandler:    handler.NewAdminHandler(adminService, logger),
		DirectorHandler: handler.NewDirectorHandler(directorService, dashboardService, logger),
		TeacherHandler:  handler.NewTeacherHandler(teacherService, logger),
		GuardianHandler: handler.NewGuardianHandler(guardianService, logger),
		StudentHandler:  handler.NewStudentHandler(studentService, logger),
		Authenticate:    middleware.Authenticate(tokens, userRepo),
		DB:              db,
		Cache:           redisClient,
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
