package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/handlers"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/logging"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	log := logging.WithComponent("main")

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "bruna-clinica-api",
		})
	})

	authHandler := handlers.NewAuthHandler(db, cfg)
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.JwtAuthMiddleware(cfg))
	{
		patientHandler := handlers.NewPatientHandler(db, cfg)
		api.POST("/patients", patientHandler.CreatePatient)
		api.GET("/patients", patientHandler.ListPatients)
		api.GET("/patients/:id", patientHandler.GetPatient)
		api.GET("/patients/:id/summary", patientHandler.GetPatientSummary)
		api.PUT("/patients/:id", patientHandler.UpdatePatient)
		// Deleting a patient cascades through the financial ledger, so it
		// stays admin-only.
		api.DELETE("/patients/:id", middleware.RequireRole(middleware.RoleAdmin), patientHandler.DeletePatient)

		appointmentHandler := handlers.NewAppointmentHandler(db, cfg)
		api.POST("/appointments", appointmentHandler.CreateAppointment)
		api.GET("/appointments", appointmentHandler.ListAppointments)
		api.GET("/appointments/:id", appointmentHandler.GetAppointment)
		api.PUT("/appointments/:id", appointmentHandler.UpdateAppointment)
		api.DELETE("/appointments/:id", appointmentHandler.DeleteAppointment)

		installmentHandler := handlers.NewInstallmentHandler(db, cfg)
		api.GET("/installments", installmentHandler.ListInstallments)
		api.POST("/installments/:id/receive", installmentHandler.ReceivePayment)

		catalogHandler := handlers.NewCatalogHandler(db, cfg)
		api.POST("/procedures", catalogHandler.CreateProcedure)
		api.GET("/procedures", catalogHandler.ListProcedures)
		api.PUT("/procedures/:id", catalogHandler.UpdateProcedure)
		api.DELETE("/procedures/:id", catalogHandler.DeleteProcedure)
		api.POST("/materials", catalogHandler.CreateMaterial)
		api.GET("/materials", catalogHandler.ListMaterials)
		api.PUT("/materials/:id", catalogHandler.UpdateMaterial)
		api.DELETE("/materials/:id", catalogHandler.DeleteMaterial)
		api.GET("/stock-movements", catalogHandler.ListStockMovements)

		expenseHandler := handlers.NewExpenseHandler(db, cfg)
		api.POST("/expenses", expenseHandler.CreateExpense)
		api.GET("/expenses", expenseHandler.ListExpenses)
		api.PUT("/expenses/:id", expenseHandler.UpdateExpense)
		api.POST("/expenses/:id/pay", expenseHandler.PayExpense)
		api.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

		goalHandler := handlers.NewGoalHandler(db, cfg)
		api.PUT("/goals", goalHandler.UpsertGoal)
		api.GET("/goals", goalHandler.ListGoals)
		api.GET("/goals/:month/progress", goalHandler.GetGoalProgress)
		api.DELETE("/goals/:id", goalHandler.DeleteGoal)

		dashboardHandler := handlers.NewDashboardHandler(db, cfg)
		api.GET("/dashboard", dashboardHandler.GetDashboard)

		reportHandler := handlers.NewReportHandler(db, cfg)
		api.GET("/reports/financial", reportHandler.GetFinancialReport)
		api.GET("/reports/patients", reportHandler.GetPatientReport)

		agendaHandler := handlers.NewAgendaHandler(db, cfg)
		api.PUT("/agenda/day-configurations", agendaHandler.UpsertDayConfiguration)
		api.GET("/agenda/day-configurations", agendaHandler.ListDayConfigurations)
		api.DELETE("/agenda/day-configurations/:id", agendaHandler.DeleteDayConfiguration)
		api.POST("/agenda/templates", agendaHandler.CreateTemplate)
		api.GET("/agenda/templates", agendaHandler.ListTemplates)
		api.DELETE("/agenda/templates/:id", agendaHandler.DeleteTemplate)
		api.POST("/agenda/blocked-days", agendaHandler.CreateBlockedDay)
		api.GET("/agenda/blocked-days", agendaHandler.ListBlockedDays)
		api.DELETE("/agenda/blocked-days/:id", agendaHandler.DeleteBlockedDay)
		api.GET("/agenda/slots", agendaHandler.GetSlots)
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Starting clinic API server")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
