package health

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/vr180-converter/internal/api/respond"
)

// toolchain reports which external binaries cannot be resolved.
type toolchain interface {
	Missing() []string
}

// Handler answers liveness probes.
type Handler struct {
	tools toolchain
}

func NewHandler(t toolchain) *Handler {
	return &Handler{tools: t}
}

// Status is the body of a health response.
type Status struct {
	Status  string   `json:"status"`
	Missing []string `json:"missing,omitempty"`
}

// Check returns 200 when ffmpeg and ffprobe are resolvable and 503 otherwise.
func (h *Handler) Check(c *ginext.Context) {
	if missing := h.tools.Missing(); len(missing) > 0 {
		respond.JSON(c, http.StatusServiceUnavailable, Status{Status: "unavailable", Missing: missing})
		return
	}

	respond.OK(c, Status{Status: "ok"})
}
