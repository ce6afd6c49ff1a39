package app

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const indexPage = "index.html"

// StaticHandler отдаёт фронтенд из root. Используется как NoRoute, поэтому
// сюда попадают все пути, не занятые API.
func StaticHandler(root string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		p := c.Request.URL.Path
		if hasTraversal(p) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path"})
			return
		}
		rel := strings.TrimPrefix(path.Clean("/"+p), "/")
		if rel == "" {
			rel = indexPage
		}
		full := filepath.Join(root, filepath.FromSlash(rel))
		fi, err := os.Stat(full)
		if err != nil || fi.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(full)
	}
}

func hasTraversal(p string) bool {
	if strings.ContainsAny(p, "\\\x00") {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
