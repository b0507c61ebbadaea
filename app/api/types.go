package api

import (
	"github.com/lysyi3m/episode-trends/app/database"
	"github.com/lysyi3m/episode-trends/app/series"
	"github.com/spf13/afero"
)

type SeriesSource interface {
	GetConfig(name string) (*series.Config, error)
	GetConfigs() []*series.Config
	GetConfigCount() int
}

var _ SeriesSource = (*series.ConfigCache)(nil)

type Handler struct {
	seriesSource SeriesSource
	runRepo      database.RunRepository
	fs           afero.Fs
	outputDir    string
	version      string
}
