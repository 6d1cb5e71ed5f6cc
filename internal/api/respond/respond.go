package respond

import (
	"net/http"
	"path/filepath"

	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/vr180-converter/internal/model"
)

// JSON sends a JSON response with the specified HTTP status code and data.
// It uses the Gin context to encode the data into JSON format.
func JSON(c *ginext.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// OK sends a 200 OK JSON response.
func OK(c *ginext.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Fail sends a failed conversion Result with the specified HTTP status code.
func Fail(c *ginext.Context, status int, diagnostic string) {
	JSON(c, status, model.Failed(diagnostic))
}

// Video streams the MP4 at path as a download named after the file.
func Video(c *ginext.Context, path string) {
	c.Header("Content-Type", "video/mp4")
	c.FileAttachment(path, filepath.Base(path))
}

// JPEG writes an encoded JPEG image.
func JPEG(c *ginext.Context, status int, data []byte) {
	c.Data(status, "image/jpeg", data)
}

// HTML writes an HTML page.
func HTML(c *ginext.Context, status int, page []byte) {
	c.Data(status, "text/html; charset=utf-8", page)
}
