package presets

import (
	"github.com/gin-gonic/gin"
)

func SetupPresetRoutes(router gin.IRoutes, controller Controller) {
	router.POST("/presets", controller.Save)              // POST /presets - save the active filter
	router.POST("/presets/:id/apply", controller.Apply)   // POST /presets/:id/apply - make a preset the active filter
	router.POST("/presets/:id/delete", controller.Delete) // POST /presets/:id/delete - remove a preset
}
