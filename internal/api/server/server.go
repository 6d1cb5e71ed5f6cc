package server

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/vr180-converter/internal/config"
)

const headerTimeout = 5 * time.Second

// New creates the HTTP server. Uploads and conversions run inside the
// request, so read and write timeouts come from config and may be 0; slow
// clients are still bounded by ReadHeaderTimeout.
func New(cfg *config.Server, router *ginext.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: headerTimeout,
	}
}
