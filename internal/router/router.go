package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"studenthub/internal/auth"
	"studenthub/internal/config"
	"studenthub/internal/handler"
	"studenthub/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	studentHandler *handler.StudentHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Maintenance route, gated by its own secret header
	api.POST("/admin/clear-db", adminHandler.ClearDB)

	// Secured routes: echo-jwt verifies the bearer token, ResolveIdentity
	// re-fetches the user row for each request.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			ParseTokenFunc: auth.ParseToken(jwtService),
		}),
		auth.ResolveIdentity(userRepo),
	)

	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/auth/verify", authHandler.VerifyToken)

	// Student routes. Fixed paths register before /students/:id so "all",
	// "courses" and "cities" are not captured as IDs.
	secured.POST("/students", studentHandler.Create)
	secured.GET("/students", studentHandler.List)
	secured.GET("/students/all", studentHandler.ListAll)
	secured.GET("/students/courses", studentHandler.Courses)
	secured.GET("/students/cities", studentHandler.Cities)
	secured.GET("/students/:id", studentHandler.Get)
	secured.PUT("/students/:id", studentHandler.Update)
	secured.DELETE("/students/:id", studentHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
