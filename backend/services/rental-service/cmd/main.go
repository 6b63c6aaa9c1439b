package main

import (
	"net/http"

	_ "time/tzdata" // Load timezone data

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/app"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/config"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/controllers"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/metrics"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/repositories"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/routes"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/services"
	"github.com/trying-dev/properties/backend/shared/go-middleware"
	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize the application:", err)
	}
	defer application.Close()

	// Repositories
	processRepo := repositories.NewProcessRepository(application.DB)
	contractRepo := repositories.NewContractRepository(application.DB)
	tenantRepo := shared_repos.NewTenantRepository(application.DB)
	unitRepo := shared_repos.NewUnitRepository(application.DB)
	adminRepo := shared_repos.NewAdminRepository(application.DB)
	userRepo := shared_repos.NewUserRepository(application.DB)
	auditRepo := shared_repos.NewAdminAuditLogRepository(application.DB)

	// Mail / SMS transport. Missing credentials leave the client nil and the
	// notifier reports a configuration error when it is needed.
	var sgClient *sendgrid.Client
	if cfg.SendgridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendgridAPIKey)
	}
	var twClient *twilio.RestClient
	if cfg.SMSReady() {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}

	// Services
	notifier := services.NewNotificationService(cfg, sgClient, twClient)
	coDebtorService := services.NewCoDebtorService(cfg, processRepo, notifier)
	contractService := services.NewContractService(contractRepo, tenantRepo, adminRepo)
	processService := services.NewProcessService(
		cfg, processRepo, tenantRepo, unitRepo, adminRepo, userRepo, auditRepo,
		coDebtorService, contractService, notifier,
	)

	// Controllers
	healthController := controllers.NewHealthController(application)
	confirmController := controllers.NewConfirmController(processService)
	processController := controllers.NewProcessController(processService)
	adminController := controllers.NewAdminController(processService)

	// Router
	router := mux.NewRouter()
	router.Use(metrics.Middleware)

	// Health & metrics
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.Metrics, promhttp.Handler()).Methods(http.MethodGet)

	// Public co-debtor confirmation
	router.HandleFunc(routes.CoDebtorConfirm, confirmController.ConfirmCoDebtorHandler).Methods(http.MethodGet, http.MethodPost)

	// Tenant routes (JWT middleware)
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.Processes, processController.CreateProcessHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Processes, processController.ListProcessesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Process, processController.GetProcessHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Process, processController.DeleteProcessHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.ProcessSteps, processController.AdvanceStepHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ProcessSecurity, processController.SubmitSecurityHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ProcessSecurityResend, processController.ResendConfirmationsHandler).Methods(http.MethodPost)

	// Admin routes
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AdminAuthMiddleware(cfg.RSAPublicKey))

	admin.HandleFunc(routes.AdminProcesses, adminController.ListQueueHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminProcess, adminController.GetProcessHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminProcessStatus, adminController.UpdateStatusHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.AdminContracts, adminController.InitializeContractHandler).Methods(http.MethodPost)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	// CORS config
	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
