package database

type RunRepository interface {
	CreateRun(run Run, videoIDs []string, episodes []EpisodeRecord) (int64, error)
	GetRun(id int64) (*Run, error)
	GetLatestRun(series string) (*Run, error)
	ListRuns(series string, limit int) ([]Run, error)
	GetRunEpisodes(runID int64) ([]EpisodeRecord, error)
	HasVideo(runID int64, videoID string) (bool, error)
}
