package api

// Track is a catalog track as returned by the search and playlist
// endpoints. Immutable once fetched; the Duration field is a hint
// used before the decoded media reports the authoritative value.
type Track struct {
	TrackID    int64   `json:"track_id"`
	Title      string  `json:"title"`
	ArtistName string  `json:"artist_name"`
	Genre      string  `json:"genre_toplevel"`
	AudioURL   string  `json:"audio_url"`  // relative to the media base URL
	ImageFile  string  `json:"image_file"` // album art, relative locator
	Duration   float64 `json:"duration"`   // seconds
}

// Playlist is a generated playlist with its tracks.
type Playlist struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	IsPublic bool    `json:"is_public"`
	OwnerID  int64   `json:"owner_id"`
	Tracks   []Track `json:"tracks"`
}

// Task statuses reported by the generation worker. Anything outside
// the terminal pair is treated as still in progress.
const (
	TaskPending = "PENDING"
	TaskStarted = "STARTED"
	TaskSuccess = "SUCCESS"
	TaskFailure = "FAILURE"
)

// TaskStatus is one poll of a playlist-generation task.
type TaskStatus struct {
	TaskID string      `json:"task_id"`
	Status string      `json:"status"`
	Result *TaskResult `json:"result"`
}

// TaskResult is the payload carried by a terminal task status. The
// generation worker reports some failures as a SUCCESS status whose
// result has Success false and an error message instead of a
// playlist id; callers must check both.
type TaskResult struct {
	Success    bool   `json:"success"`
	PlaylistID int64  `json:"playlist_id"`
	Error      string `json:"error"`
}

// Terminal reports whether the task has finished (either way).
func (s *TaskStatus) Terminal() bool {
	return s.Status == TaskSuccess || s.Status == TaskFailure
}

// TaskSubmission is the accepted-for-processing response of the
// playlist creation endpoints. Older servers returned the playlist
// id directly under "id".
type TaskSubmission struct {
	TaskID   string `json:"task_id"`
	LegacyID int64  `json:"id"`
}
