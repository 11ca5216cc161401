package routes

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"crmdashboard/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	dealHandler *handlers.DealHandler,
	reportHandler *handlers.ReportHandler,
	expertiseHandler *handlers.ExpertiseHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {

	r.GET("/healthz", healthHandler.Check)

	api := r.Group("/api")
	{
		api.GET("/deals", dealHandler.List)
		api.GET("/deals/summary", reportHandler.GetSummary)
		api.GET("/deals/report.pdf", reportHandler.DownloadPDF)

		api.GET("/expertise", expertiseHandler.Get)
		api.POST("/expertise", expertiseHandler.Replace)
	}

	return r
}

// SetupStatic serves the dashboard page at / and any other file under dir.
func SetupStatic(r *gin.Engine, dir, index string) {
	if dir == "" {
		return
	}
	root := http.Dir(dir)

	r.StaticFile("/", filepath.Join(dir, index))
	r.NoRoute(func(c *gin.Context) {
		p := path.Clean("/" + c.Request.URL.Path)
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		f, err := root.Open(p)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		st, err := f.Stat()
		f.Close()
		if err != nil || st.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(filepath.Join(dir, filepath.FromSlash(p)))
	})
}
