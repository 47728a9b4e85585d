package response

import (
	"github.com/gin-gonic/gin"
)

// RenderPage renders a named HTML template with the pending flash and the
// current path added to data.
func RenderPage(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Flash"]; !ok {
		if f := PopFlash(c); f != nil {
			data["Flash"] = f
		}
	}
	data["Path"] = c.Request.URL.Path
	c.HTML(code, name, data)
}
