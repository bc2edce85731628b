package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	mwauth "github.com/taskforge/taskforge/internal/middleware/auth"

	"github.com/taskforge/taskforge/internal/tokens"
)

type Deps struct {
	DB     *gorm.DB
	Issuer *tokens.Issuer
	Auth   *AuthHTTP
	Tasks  *TaskHTTP
	Users  *UserHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Todo Backend API", "version": "1.0.0"})
	})
	e.GET("/health", health(d.DB))

	api := e.Group("/api")

	authG := api.Group("/auth")
	authG.POST("/register", d.Auth.Register)
	authG.POST("/login", d.Auth.Login)
	authG.POST("/logout", d.Auth.Logout)
	authG.POST("/refresh", d.Auth.Refresh)

	todos := api.Group("/todos", mwauth.RequireLogin(d.Issuer))
	todos.GET("", d.Tasks.List)
	todos.POST("", d.Tasks.Create)
	if d.Tasks.ES != nil {
		todos.GET("/search", d.Tasks.Search)
	}
	todos.GET("/:id", d.Tasks.Get)
	todos.PUT("/:id", d.Tasks.Update)
	todos.DELETE("/:id", d.Tasks.Delete)
	todos.PATCH("/:id/complete", d.Tasks.ToggleComplete)

	users := api.Group("/users/:id", mwauth.RequireLogin(d.Issuer), mwauth.RequireOwner("id"))
	users.GET("", d.Users.Get)
	users.PUT("", d.Users.Update)
	users.DELETE("", d.Users.Delete)
}

func health(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := "healthy"
		connected := true

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			status = "unhealthy"
			connected = false
		}

		code := http.StatusOK
		if !connected {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, echo.Map{
			"status":             status,
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
			"database_connected": connected,
		})
	}
}
