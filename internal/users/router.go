package users

import "github.com/gin-gonic/gin"

func SetupUserRoutes(router gin.IRoutes, controller Controller) {
	router.GET("/profile", controller.Show)            // GET /profile - account page
	router.POST("/profile", controller.Update)         // POST /profile - update name and email
	router.POST("/profile/delete", controller.Delete)  // POST /profile/delete - delete the account
}
