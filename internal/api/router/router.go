package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/vr180-converter/internal/api/handlers/convert"
	"github.com/aliskhannn/vr180-converter/internal/api/handlers/health"
	"github.com/aliskhannn/vr180-converter/internal/api/middleware"
)

func Setup(h *convert.Handler, hh *health.Handler) *ginext.Engine {
	r := ginext.New()

	r.Use(middleware.CORSMiddleware())
	r.Use(ginext.Logger())
	r.Use(ginext.Recovery())

	r.GET("/", h.Index)                      // upload form
	r.POST("/convert", h.Convert)            // converting a video
	r.GET("/results/:id", h.Result)          // downloading a result by job id
	r.GET("/results/:id/preview", h.Preview) // poster frame of a result
	r.GET("/healthz", hh.Check)              // ffmpeg/ffprobe availability

	return r
}
