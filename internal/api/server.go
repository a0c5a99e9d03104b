package api

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/inventory/docs"
	v1 "github.com/yizeng/gab/gin/gorm/inventory/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/config"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/db"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/repository"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/service"
	"github.com/yizeng/gab/gin/gorm/inventory/web"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Feed   *v1.ItemFeedHandler
}

// NewServer wires every handler. The item feed hub is not started here;
// call s.Feed.Run in its own goroutine.
func NewServer(conf *config.AppConfig, gormDB *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Feed:   v1.NewItemFeedHandler(),
	}

	s.MountMiddlewares()
	s.MountTemplates()

	itemHandler := s.initItemHandler(gormDB)
	healthHandler := v1.NewHealthHandler(func(ctx context.Context) error {
		return db.Ping(ctx, gormDB)
	})
	s.MountHandlers(itemHandler, healthHandler)

	return s
}

func (s *Server) initItemHandler(gormDB *gorm.DB) *v1.ItemHandler {
	itemDAO := dao.NewItemDAO(gormDB)
	repo := repository.NewItemRepository(itemDAO)
	svc := service.NewItemService(repo, s.Feed)
	handler := v1.NewItemHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.Recovery())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountTemplates() {
	tmpl := template.Must(template.New("").ParseFS(web.Templates, "templates/*.html"))
	s.Router.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	s.Router.StaticFS("/static", http.FS(static))
}

func (s *Server) MountHandlers(itemHandler *v1.ItemHandler, healthHandler *v1.HealthHandler) {
	s.Router.GET("/", itemHandler.HandleIndex)
	s.Router.GET("/healthz", healthHandler.HandleHealthz)
	s.Router.GET("/readyz", healthHandler.HandleReadyz)

	items := s.Router.Group("/items")
	{
		items.GET("/", itemHandler.HandleListItems)
		items.POST("/", itemHandler.HandleCreateItem)
		items.GET("/ws", s.Feed.HandleWebSocket)
		items.GET("/:itemID", itemHandler.HandleGetItem)
		items.PUT("/:itemID", itemHandler.HandleUpdateItem)
		items.DELETE("/:itemID", itemHandler.HandleDeleteItem)
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Title = "Inventory API"
	docs.SwaggerInfo.Description = "CRUD over inventory items, rendered as HTML or JSON."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
