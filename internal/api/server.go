package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/edumesh/contribution-api/docs"
	v1 "github.com/edumesh/contribution-api/internal/api/handler/v1"
	"github.com/edumesh/contribution-api/internal/api/middleware"
	"github.com/edumesh/contribution-api/internal/config"
	"github.com/edumesh/contribution-api/internal/repository"
	"github.com/edumesh/contribution-api/internal/repository/dao"
	"github.com/edumesh/contribution-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	// The keyed mutex serializes quota mutations per participant, so
	// every service touching packages has to share the same instance.
	locks := service.NewKeyedMutex()

	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	contentRepo := repository.NewContentRepository(dao.NewContentDAO(db))
	pkgRepo := repository.NewWorkPackageRepository(dao.NewWorkPackageDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	configRepo := repository.NewConfigRepository(dao.NewConfigDAO(db))
	allocationRepo := repository.NewAllocationRepository(dao.NewAllocationDAO(db))

	configSvc := service.NewConfigService(configRepo)
	ledgerSvc := service.NewLedgerService(ledgerRepo)
	prestigeSvc := service.NewPrestigeService(ledgerRepo)
	pkgSvc := service.NewWorkPackageService(pkgRepo, configSvc, locks)
	participantSvc := service.NewParticipantService(participantRepo)
	contentSvc := service.NewContentService(contentRepo)
	authSvc := service.NewAuthService(participantRepo, pkgSvc)
	allocationSvc := service.NewAllocationService(allocationRepo, contentRepo, pkgRepo, ledgerSvc, prestigeSvc, configSvc, locks)

	authHandler := v1.NewAuthHandler(s.Config.API, authSvc)
	participantHandler := v1.NewParticipantHandler(participantSvc, ledgerSvc, prestigeSvc, pkgSvc)
	contentHandler := v1.NewContentHandler(allocationSvc, contentSvc, participantSvc)
	configHandler := v1.NewConfigHandler(configSvc, participantSvc)

	s.MountHandlers(authHandler, participantHandler, contentHandler, configHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, participantHandler *v1.ParticipantHandler, contentHandler *v1.ContentHandler, configHandler *v1.ConfigHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	participants := s.Router.Group(basePath, verifyJWT)
	{
		participants.GET("/participants/:participantID", participantHandler.HandleGetParticipant)
		participants.GET("/participants/:participantID/balance", participantHandler.HandleGetBalance)
		participants.GET("/participants/:participantID/prestige", participantHandler.HandleGetPrestige)
		participants.GET("/participants/:participantID/package", participantHandler.HandleGetPackage)
		participants.POST("/participants/:participantID/package", participantHandler.HandleProvisionPackage)
	}

	contents := s.Router.Group(basePath, verifyJWT)
	{
		contents.GET("/contents/:contentID", contentHandler.HandleGetContent)
		contents.GET("/contents/:contentID/children", contentHandler.HandleGetChildren)
		contents.POST("/contents/:contentID/tasks", contentHandler.HandleCreateTask)
		contents.POST("/contents/:contentID/infos", contentHandler.HandleCreateInfo)
		contents.POST("/contents/:contentID/solutions", contentHandler.HandleCreateSolution)
		contents.POST("/contents/:contentID/ratings", contentHandler.HandleCreateRating)
		contents.DELETE("/contents/:contentID", contentHandler.HandleDeactivateContent)
	}

	configs := s.Router.Group(basePath, verifyJWT)
	{
		configs.POST("/configs/global", configHandler.HandleCreateGlobalConfig)
		configs.PATCH("/configs/global", configHandler.HandlePatchGlobalConfig)
		configs.GET("/configs/nodes/:nodeID", configHandler.HandleGetEffectiveConfig)
		configs.POST("/configs/nodes/:nodeID", configHandler.HandleCreateNodeConfig)
		configs.PATCH("/configs/nodes/:nodeID", configHandler.HandlePatchNodeConfig)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Contribution API"
	docs.SwaggerInfo.Description = "Work allocation and reputation engine for collaborative learning meshes."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
