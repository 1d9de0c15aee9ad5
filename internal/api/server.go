package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/hanbit-bazaar/tickets-api/docs"
	v1 "github.com/hanbit-bazaar/tickets-api/internal/api/handler/v1"
	"github.com/hanbit-bazaar/tickets-api/internal/api/middleware"
	"github.com/hanbit-bazaar/tickets-api/internal/config"
	"github.com/hanbit-bazaar/tickets-api/internal/repository"
	"github.com/hanbit-bazaar/tickets-api/internal/repository/dao"
	"github.com/hanbit-bazaar/tickets-api/internal/service"
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

	authHandler := s.initAuthHandler()
	orderHandler := s.initOrderHandler(db)
	ticketHandler := s.initTicketHandler(db)
	s.MountHandlers(authHandler, orderHandler, ticketHandler)

	return s
}

func (s *Server) initAuthHandler() *v1.AuthHandler {
	svc := service.NewAuthService(s.Config.API.AdminPasswordHash)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initOrderHandler(db *gorm.DB) *v1.OrderHandler {
	orderDAO := dao.NewOrderDAO(db)
	repo := repository.NewOrderRepository(orderDAO)
	svc := service.NewOrderService(repo, s.Config.Order.UnitPrice)
	handler := v1.NewOrderHandler(svc)

	return handler
}

func (s *Server) initTicketHandler(db *gorm.DB) *v1.TicketHandler {
	ticketDAO := dao.NewTicketDAO(db)
	repo := repository.NewTicketRepository(ticketDAO)
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	svc := service.NewTicketService(repo, orderRepo)
	handler := v1.NewTicketHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, orderHandler *v1.OrderHandler, ticketHandler *v1.TicketHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/admin", authHandler.HandleAdminLogin)
		public.POST("/orders", orderHandler.HandleCreateOrder)
		public.GET("/tickets", ticketHandler.HandleLookupTickets)
	}

	admin := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.GET("/orders", orderHandler.HandleListOrders)
		admin.PATCH("/orders/:orderID", orderHandler.HandleUpdateOrderStatus)
		admin.DELETE("/orders/:orderID", orderHandler.HandleDeleteOrder)
		admin.POST("/tickets/:ticketID/use", ticketHandler.HandleRedeemTicket)
		admin.GET("/tickets/number/:number", ticketHandler.HandleFindTicketByNumber)
		admin.POST("/admin/tickets/renumber", ticketHandler.HandleRenumberTickets)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Bazaar ticket sales API"
	docs.SwaggerInfo.Description = "Order, issue and redeem fundraiser tickets."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
