package events

import (
	"github.com/gin-gonic/gin"
)

// SetupEventPages registers the server-rendered listing and form routes.
func SetupEventPages(router gin.IRoutes, controller Controller) {
	router.GET("/", controller.Index)                           // GET / - listing with filter panel
	router.POST("/filters/apply", controller.ApplyFilters)      // POST /filters/apply - apply the filter panel
	router.POST("/filters/reset", controller.ResetFilters)      // POST /filters/reset - clear draft and active filter
	router.GET("/events/new", controller.NewEvent)              // GET /events/new - create form
	router.POST("/events", controller.CreateEvent)              // POST /events - create
	router.GET("/events/:id/edit", controller.EditEvent)        // GET /events/:id/edit - edit form
	router.POST("/events/:id", controller.UpdateEvent)          // POST /events/:id - update
	router.POST("/events/:id/delete", controller.DeleteEvent)   // POST /events/:id/delete - delete after confirmation
}

// SetupEventAPI registers the JSON feed under the API group.
func SetupEventAPI(router *gin.RouterGroup, controller Controller) {
	router.GET("/events", controller.Feed) // GET /api/v1/events - listing as JSON
}
