package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/prefsaude/regulacao-api/internal/audit"
	"github.com/prefsaude/regulacao-api/internal/config"
	"github.com/prefsaude/regulacao-api/internal/handlers"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/infra/lock"
	infraRepo "github.com/prefsaude/regulacao-api/internal/infra/repository"
	"github.com/prefsaude/regulacao-api/internal/middleware"
	"github.com/prefsaude/regulacao-api/internal/notify"
	ucCapacity "github.com/prefsaude/regulacao-api/internal/usecase/capacity"
	ucRegulation "github.com/prefsaude/regulacao-api/internal/usecase/regulation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	regulationRepo := infraRepo.NewRegulationGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifyBus := notify.NewBus(notify.NewGormStore(db))

	// Redis é opcional: sem REDIS_ADDR o trancamento da tripla
	// (médico, especialidade|exame, data) é local ao processo. A
	// transação com FOR UPDATE continua garantindo a contagem.
	var locks lock.Keyed
	if cfg.RedisAddr != "" {
		locks = lock.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		locks = lock.NewMemory()
	}

	// ======================================================
	// 🧠 USE CASES — REGULAÇÃO
	// ======================================================
	submitUC := ucRegulation.NewSubmitBatch(regulationRepo, auditDispatcher, notifyBus)

	authorizeUC := ucRegulation.NewAuthorizeRequest(
		regulationRepo,
		locks,
		auditDispatcher,
		notifyBus,
	)

	denyUC := ucRegulation.NewDenyRequest(regulationRepo, auditDispatcher, notifyBus)
	cancelUC := ucRegulation.NewCancelRequest(regulationRepo, auditDispatcher, notifyBus)
	hardDeleteUC := ucRegulation.NewHardDeleteRequest(regulationRepo, auditDispatcher)

	pendenciaUC := ucRegulation.NewPendencia(regulationRepo, auditDispatcher, notifyBus)
	outcomeUC := ucRegulation.NewRecordOutcome(regulationRepo, auditDispatcher, notifyBus)

	listUC := ucRegulation.NewListRequests(regulationRepo)
	getUC := ucRegulation.NewGetRequest(regulationRepo)
	textsUC := ucRegulation.NewUpdateTexts(regulationRepo, auditDispatcher)

	// ======================================================
	// 🧠 USE CASES — AGENDA
	// ======================================================
	upsertBucketUC := ucCapacity.NewUpsertBucket(regulationRepo, auditDispatcher)
	generateUC := ucCapacity.NewGenerateFromTemplate(regulationRepo, auditDispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)

	requestHandler := handlers.NewRequestHandler(
		submitUC,
		listUC,
		getUC,
		textsUC,
		cancelUC,
		hardDeleteUC,
	)

	regulationHandler := handlers.NewRegulationHandler(authorizeUC, denyUC)
	pendenciaHandler := handlers.NewPendenciaHandler(pendenciaUC)
	outcomeHandler := handlers.NewOutcomeHandler(outcomeUC)
	capacityHandler := handlers.NewCapacityHandler(db, upsertBucketUC, generateUC)

	notificationHandler := handlers.NewNotificationHandler(db)
	auditActionsHandler := handlers.NewAuditActionsHandler(db)

	regulators := middleware.RequireRoles(iam.RoleRegulator, iam.RoleAdmin)
	adminOnly := middleware.RequireRoles(iam.RoleAdmin)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/notifications", notificationHandler.List)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)
			secured.GET("/me/actions/today", auditActionsHandler.TodayActions)

			// ------------------------------
			// CATÁLOGO
			// ------------------------------
			secured.GET("/ubs", catalogHandler.ListUBS)
			secured.GET("/doctors", catalogHandler.ListDoctors)
			secured.GET("/specialties", catalogHandler.ListSpecialties)
			secured.GET("/exam-types", catalogHandler.ListExamTypes)
			secured.GET("/locations", catalogHandler.ListLocations)
			secured.GET("/patients", catalogHandler.ListPatients)
			secured.POST("/patients", catalogHandler.CreatePatient)

			// ------------------------------
			// SOLICITAÇÕES
			// ------------------------------
			secured.POST("/requests/exams", requestHandler.SubmitExams)
			secured.POST("/requests/consultations", requestHandler.SubmitConsultation)
			secured.GET("/requests", requestHandler.List)
			secured.GET("/requests/:id", requestHandler.Get)
			secured.PATCH("/requests/:id/texts", requestHandler.UpdateTexts)
			secured.POST("/requests/:id/cancel", requestHandler.Cancel)
			secured.DELETE("/requests/:id", adminOnly, requestHandler.HardDelete)

			// ------------------------------
			// REGULAÇÃO
			// ------------------------------
			secured.POST("/requests/:id/authorize", regulators, regulationHandler.Authorize)
			secured.POST("/requests/authorize-batch", regulators, regulationHandler.BatchAuthorize)
			secured.POST("/requests/:id/deny", regulators, regulationHandler.Deny)

			// ------------------------------
			// PENDÊNCIA
			// ------------------------------
			secured.POST("/requests/:id/pendencia", regulators, pendenciaHandler.Open)
			secured.POST("/requests/:id/pendencia/messages", pendenciaHandler.PostMessage)
			secured.POST("/requests/:id/pendencia/reply", pendenciaHandler.Reply)
			secured.POST("/requests/:id/pendencia/resolve", regulators, pendenciaHandler.Resolve)
			secured.GET("/requests/:id/pendencia", pendenciaHandler.Timeline)

			// ------------------------------
			// DESFECHO
			// ------------------------------
			secured.POST("/requests/:id/outcome", regulators, outcomeHandler.Record)
			secured.POST("/requests/outcomes", regulators, outcomeHandler.RecordBatch)

			// ------------------------------
			// AGENDA (ADMIN)
			// ------------------------------
			secured.PUT("/capacity/buckets", adminOnly, capacityHandler.UpsertBucket)
			secured.GET("/capacity/buckets", regulators, capacityHandler.ListBuckets)
			secured.DELETE("/capacity/buckets/:id", adminOnly, capacityHandler.DeleteBucket)
			secured.POST("/capacity/templates/generate", adminOnly, capacityHandler.Generate)
			secured.GET("/capacity/templates", regulators, capacityHandler.ListTemplates)

			// ------------------------------
			// ADMIN
			// ------------------------------
			secured.POST("/admin/users", adminOnly, authHandler.CreateUser)
			secured.POST("/admin/ubs", adminOnly, catalogHandler.CreateUBS)
			secured.POST("/admin/doctors", adminOnly, catalogHandler.CreateDoctor)
			secured.POST("/admin/specialties", adminOnly, catalogHandler.CreateSpecialty)
			secured.POST("/admin/exam-types", adminOnly, catalogHandler.CreateExamType)
			secured.POST("/admin/locations", adminOnly, catalogHandler.CreateLocation)
			secured.GET("/admin/audit-actions", adminOnly, auditActionsHandler.List)
		}
	}
}
