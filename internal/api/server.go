package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storefront/merchant-admin/docs"
	v1 "github.com/storefront/merchant-admin/internal/api/handler/v1"
	"github.com/storefront/merchant-admin/internal/api/middleware"
	"github.com/storefront/merchant-admin/internal/backend"
	"github.com/storefront/merchant-admin/internal/config"
	"github.com/storefront/merchant-admin/internal/endpoint"
	"github.com/storefront/merchant-admin/internal/repository"
	"github.com/storefront/merchant-admin/internal/repository/dao"
	"github.com/storefront/merchant-admin/internal/service"
	"github.com/storefront/merchant-admin/internal/session"
	"github.com/storefront/merchant-admin/internal/web"
)

const (
	basePath  = "/api/v1"
	loginPage = "/"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	endpoints *endpoint.Registry
	client    *backend.Client
	sessions  *session.CookieStore
	loader    *middleware.SessionLoader
}

type handlers struct {
	auth      *v1.AuthHandler
	products  *v1.ProductHandler
	sales     *v1.SalesHandler
	dashboard *v1.DashboardHandler
	employees *v1.EmployeeHandler
	pages     *web.PageHandler
}

// NewServer wires every handler against the backend profile selected in
// conf. db may be nil, in which case the employee routes are not mounted.
func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	registry, err := endpoint.NewRegistry(conf.Backend)
	if err != nil {
		return nil, fmt.Errorf("endpoint.NewRegistry -> %w", err)
	}
	zap.L().Info("backend profile selected",
		zap.String("profile", registry.Profile()),
		zap.Duration("timeout", conf.Backend.RequestTimeout),
	)

	if conf.Gin != nil {
		gin.SetMode(conf.Gin.Mode)
	}
	engine := gin.New()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("web.Templates -> %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	sessions := session.NewCookieStore(conf.API.Session)
	s := &Server{
		Config:    conf,
		Router:    engine,
		endpoints: registry,
		client:    backend.NewClient(&http.Client{}, conf.Backend.RequestTimeout),
		sessions:  sessions,
		loader:    middleware.NewSessionLoader(sessions),
	}

	s.MountMiddlewares()

	h := handlers{
		auth:      s.initAuthHandler(),
		products:  s.initProductHandler(),
		sales:     s.initSalesHandler(),
		dashboard: s.initDashboardHandler(),
		pages:     web.NewPageHandler(basePath, db != nil),
	}
	if db != nil {
		h.employees = s.initEmployeeHandler(db)
	}
	s.mountHandlers(h)

	return s, nil
}

func (s *Server) initAuthHandler() *v1.AuthHandler {
	svc := service.NewAuthService(s.client, s.endpoints)
	handler := v1.NewAuthHandler(s.sessions, svc)

	return handler
}

func (s *Server) initProductHandler() *v1.ProductHandler {
	svc := service.NewProductService(s.client, s.endpoints, s.Config.Backend.StoreID)
	handler := v1.NewProductHandler(svc)

	return handler
}

func (s *Server) initSalesHandler() *v1.SalesHandler {
	svc := service.NewSalesService(s.client, s.endpoints)
	handler := v1.NewSalesHandler(svc)

	return handler
}

func (s *Server) initDashboardHandler() *v1.DashboardHandler {
	svc := service.NewDashboardService(s.client, s.endpoints)
	handler := v1.NewDashboardHandler(svc)

	return handler
}

func (s *Server) initEmployeeHandler(db *gorm.DB) *v1.EmployeeHandler {
	employeeDAO := dao.NewEmployeeDAO(db)
	repo := repository.NewEmployeeRepository(employeeDAO)
	svc := service.NewEmployeeService(repo)
	handler := v1.NewEmployeeHandler(svc)

	return handler
}

// requireSession gates routes that read a request body or query before
// calling the service, honouring the profile's public endpoints.
func (s *Server) requireSession(op endpoint.Operation) gin.HandlerFunc {
	return s.loader.RequireSession(s.endpoints.IsPublic(op))
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(s.loader.Load())
}

func (s *Server) mountHandlers(h handlers) {
	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/login", h.auth.HandleLogin)
		auth.POST("/auth/logout", h.auth.HandleLogout)
	}

	products := s.Router.Group(basePath)
	{
		products.GET("/products", h.products.HandleListProducts)
		products.POST("/products", s.requireSession(endpoint.AddProduct), h.products.HandleAddProduct)
		products.PATCH("/products", s.requireSession(endpoint.UpdateProduct), h.products.HandleUpdateProduct)
		products.DELETE("/products/:id", h.products.HandleDeleteProduct)
		products.GET("/products/export", h.products.HandleExportProducts)
	}

	sold := s.Router.Group(basePath)
	{
		sold.GET("/sold", s.requireSession(endpoint.ListSoldItems), h.sales.HandleListSoldItems)
		sold.POST("/sold", s.requireSession(endpoint.AddSoldItem), h.sales.HandleAddSoldItem)
		sold.GET("/sold/export", s.requireSession(endpoint.ListSoldItems), h.sales.HandleExportSoldItems)
	}

	s.Router.GET(basePath+"/dashboard", h.dashboard.HandleGetDashboard)

	if h.employees != nil {
		employees := s.Router.Group(basePath, s.loader.RequireSession(false))
		{
			employees.GET("/employees", h.employees.HandleListEmployees)
			employees.POST("/employees", h.employees.HandleRegisterEmployee)
			employees.GET("/employees/:employeeID", h.employees.HandleGetEmployee)
			employees.DELETE("/employees/:employeeID", h.employees.HandleDeleteEmployee)
		}
	}

	s.Router.GET("/healthz", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.Router.StaticFS("/static", web.Static())
	s.Router.GET(loginPage, h.pages.HandleLogin)
	pages := s.Router.Group("", s.loader.RequirePage(loginPage))
	{
		pages.GET("/dashboard", h.pages.HandleDashboard)
		pages.GET("/sold", h.pages.HandleSold)
		if h.employees != nil {
			pages.GET("/users", h.pages.HandleUsers)
		}
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Merchant Admin API"
	docs.SwaggerInfo.Description = "Authenticated proxy in front of the store backend."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
