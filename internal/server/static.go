package server

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

//go:embed assets
var embedded embed.FS

// assetFiles are the embedded files served under /assets.
var assetFiles = []string{"app.js", "app.css"}

// mountStatic serves the UI: the configured directory when it holds an
// index.html, the embedded shell otherwise.
func (s *Server) mountStatic() {
	if s.opts.StaticDir != "" && s.mountStaticDir(s.opts.StaticDir) {
		return
	}

	assets, err := fs.Sub(embedded, "assets")
	if err != nil {
		s.logger.Error("embedded assets unavailable", "error", err)
		return
	}
	index, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		s.logger.Error("embedded index.html unavailable", "error", err)
		return
	}

	s.engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	files := http.FS(assets)
	for _, name := range assetFiles {
		s.engine.StaticFileFS("/assets/"+name, name, files)
	}
}

// mountStaticDir serves a prebuilt frontend from dir and reports whether it did.
func (s *Server) mountStaticDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing; using embedded UI", "path", dir, "error", err)
		return false
	}

	indexPath := filepath.Join(dir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		s.logger.Warn("index.html not found; using embedded UI", "path", indexPath, "error", err)
		return false
	}
	s.engine.GET("/", func(c *gin.Context) {
		c.File(indexPath)
	})

	assetsDir := filepath.Join(dir, "assets")
	if _, err := os.Stat(assetsDir); err == nil {
		s.engine.StaticFS("/assets", gin.Dir(assetsDir, false))
	}

	favicon := filepath.Join(dir, "favicon.ico")
	if _, err := os.Stat(favicon); err == nil {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
	return true
}
