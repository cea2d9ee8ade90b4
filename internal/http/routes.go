package http

import (
	"github.com/labstack/echo/v4"
)

func Register(e *echo.Echo, tasks *TaskHandler, auth *AuthHandler, bearerAuth echo.MiddlewareFunc) {
	api := e.Group("/api")

	api.POST("/register", auth.Register)
	api.POST("/login", auth.Login)

	authed := api.Group("", bearerAuth)
	authed.POST("/logout", auth.Logout)
	authed.GET("/me", auth.Me)

	authed.GET("/tasks", tasks.List)
	authed.POST("/tasks", tasks.Create)
	authed.GET("/tasks/:id", tasks.Get)
	authed.PUT("/tasks/:id", tasks.Update)
	authed.DELETE("/tasks/:id", tasks.Delete)
}
