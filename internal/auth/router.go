package auth

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the login, register and logout pages.
func SetupRoutes(router gin.IRoutes, controller *Controller) {
	router.GET("/login", controller.ShowLogin)            // GET /login - login form, ?mode=register for sign up
	router.POST("/login", controller.Login)               // POST /login - sign in
	router.POST("/login/register", controller.Register)   // POST /login/register - create an account
	router.POST("/logout", controller.Logout)             // POST /logout - sign out
}
