package models

// Live broadcast states reported by the YouTube search API
const (
	LiveStatusLive     = "live"
	LiveStatusUpcoming = "upcoming"
	LiveStatusNone     = "none"
)

// VideoInfo is the newest video found for a league's channel
type VideoInfo struct {
	VideoID    string `json:"videoId"`
	LiveStatus string `json:"isLive"`
}

// IsLive reports whether the video is currently broadcasting
func (v VideoInfo) IsLive() bool {
	return v.LiveStatus == LiveStatusLive
}

// Livestream represents a row of the youtube_data table
type Livestream struct {
	ID      int    `db:"id" json:"id"`
	League  string `db:"league" json:"league"`
	VideoID string `db:"videoID" json:"videoId"`
	IsLive  string `db:"isLive" json:"isLive"`
}

// ToVideoInfo strips the row down to the fields the updater writes
func (l *Livestream) ToVideoInfo() VideoInfo {
	return VideoInfo{
		VideoID:    l.VideoID,
		LiveStatus: l.IsLive,
	}
}
