package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the compiled client bundle. Unknown non-API paths fall
// back to index.html so client side routes survive a reload.
func (s *Server) mountStatic() {
	s.engine.NoRoute(func(c *gin.Context) {
		respondMessage(c, http.StatusNotFound, "Endpoint not found")
	})

	if s.staticDir == "" {
		s.logger.Info("static directory not configured; API only mode")
		return
	}

	indexPath := filepath.Join(s.staticDir, "index.html")
	if info, err := os.Stat(indexPath); err != nil || info.IsDir() {
		s.logger.Warn("client bundle missing; API only mode", "path", indexPath, "error", err)
		return
	}

	root := http.Dir(s.staticDir)
	s.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			respondMessage(c, http.StatusNotFound, "Endpoint not found")
			return
		}
		if f, err := root.Open(path); err == nil {
			info, statErr := f.Stat()
			_ = f.Close()
			if statErr == nil && !info.IsDir() {
				c.FileFromFS(path, root)
				return
			}
		}
		c.File(indexPath)
	})
}
