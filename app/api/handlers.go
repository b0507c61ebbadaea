package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/episode-trends/app/database"
	"github.com/spf13/afero"
)

// NewHandler builds the report handlers. runRepo may be nil when no archive is configured.
func NewHandler(seriesSource SeriesSource, runRepo database.RunRepository, outputFs afero.Fs, outputDir, version string) *Handler {
	return &Handler{
		seriesSource: seriesSource,
		runRepo:      runRepo,
		fs:           outputFs,
		outputDir:    outputDir,
		version:      version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":     time.Now().In(time.Local).Format(time.RFC3339),
		"version":       h.version,
		"loaded_series": h.seriesSource.GetConfigCount(),
		"archive":       h.runRepo != nil,
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetPlot(c *gin.Context) {
	file := c.Param("file")
	if file == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if !h.isKnownPlot(file) {
		c.Status(http.StatusNotFound)
		return
	}

	data, err := afero.ReadFile(h.fs, filepath.Join(h.outputDir, file))
	if errors.Is(err, fs.ErrNotExist) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Plot read error", "file", file, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) APIListSeries(c *gin.Context) {
	configs := h.seriesSource.GetConfigs()

	list := make([]map[string]interface{}, 0, len(configs))
	for _, seriesConfig := range configs {
		info := map[string]interface{}{
			"name":              seriesConfig.Name,
			"handle":            seriesConfig.Handle,
			"title_pattern":     seriesConfig.TitlePattern,
			"color_channel":     seriesConfig.ColorChannel,
			"thumbnail_quality": seriesConfig.ThumbnailQuality,
			"excluded_videos":   len(seriesConfig.ExcludeVideoIDs),
			"plots": []string{
				seriesConfig.Plots.Duration.File,
				seriesConfig.Plots.Color.File,
			},
		}

		if h.runRepo != nil {
			if run, err := h.runRepo.GetLatestRun(seriesConfig.Name); err == nil && run != nil {
				info["latest_run"] = run
			}
		}

		list = append(list, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"series": list,
		"total":  len(list),
	})
}

func (h *Handler) APIListRuns(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	seriesName := c.Query("series")
	if seriesName != "" {
		if _, err := h.seriesSource.GetConfig(seriesName); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Series configuration not found"})
			return
		}
	}

	runs, err := h.runRepo.ListRuns(seriesName, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "series", seriesName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"total": len(runs),
	})
}

func (h *Handler) APIGetRun(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) APIGetRunEpisodes(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	episodes, err := h.runRepo.GetRunEpisodes(run.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_run_episodes", "run", run.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"run":      run.ID,
		"series":   run.Series,
		"episodes": episodes,
		"total":    len(episodes),
	})
}

func (h *Handler) lookupRun(c *gin.Context) (*database.Run, bool) {
	if !h.requireArchive(c) {
		return nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run id"})
		return nil, false
	}

	run, err := h.runRepo.GetRun(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_run", "run", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return nil, false
	}

	return run, true
}

func (h *Handler) requireArchive(c *gin.Context) bool {
	if h.runRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run archive disabled (DB_PATH not set)"})
		return false
	}
	return true
}

func (h *Handler) isKnownPlot(file string) bool {
	for _, seriesConfig := range h.seriesSource.GetConfigs() {
		if file == seriesConfig.Plots.Duration.File || file == seriesConfig.Plots.Color.File {
			return true
		}
	}
	return false
}
