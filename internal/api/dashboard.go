package api

import (
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Embedded dashboard assets.
//
// internal/api/web/ holds a small static status page that polls the
// /api/v1/stats endpoint.
//
//go:embed web/*
var embeddedUI embed.FS

func getEmbedFs() static.ServeFileSystem {
	// static v1.1.3's EmbedFolder panics on a bad path instead of
	// returning an error, matching the panic this wrapper had.
	return static.EmbedFolder(embeddedUI, "web")
}

// MountDashboard serves the embedded status page at the HTTP root.
func MountDashboard(r *gin.Engine, logger *slog.Logger) {
	webFS := getEmbedFs()
	r.Use(static.Serve("/", webFS))

	r.NoRoute(func(c *gin.Context) {
		// Only serve index.html for non-API routes
		if !strings.HasPrefix(c.Request.RequestURI, "/api") {
			index, err := webFS.Open("index.html")
			if err != nil {
				logger.Error("failed to open index.html", "error", err)
				return
			}
			defer index.Close()
			stat, _ := index.Stat()
			http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
		}
	})
}
