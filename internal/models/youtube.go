package models

import "time"

// SearchResponse is the part of a YouTube Data API v3 search.list response we read
type SearchResponse struct {
	Kind     string        `json:"kind"`
	Items    []SearchItem  `json:"items"`
	PageInfo *PageInfo     `json:"pageInfo,omitempty"`
	Error    *ErrorPayload `json:"error,omitempty"`
}

// SearchItem is a single search hit
type SearchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet SearchSnippet `json:"snippet"`
}

// SearchSnippet holds the snippet part of a search hit
type SearchSnippet struct {
	PublishedAt          time.Time `json:"publishedAt"`
	ChannelID            string    `json:"channelId"`
	Title                string    `json:"title"`
	LiveBroadcastContent string    `json:"liveBroadcastContent"`
}

// PageInfo is returned alongside the items
type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

// ErrorPayload is the error envelope Google APIs return on failure
type ErrorPayload struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Errors  []ErrorPayloadItem `json:"errors,omitempty"`
}

// ErrorPayloadItem is one entry of ErrorPayload.Errors
type ErrorPayloadItem struct {
	Message string `json:"message"`
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
}

// ToVideoInfo converts the first search hit, if any
func (r *SearchResponse) ToVideoInfo() (VideoInfo, bool) {
	if len(r.Items) == 0 {
		return VideoInfo{}, false
	}
	item := r.Items[0]
	return VideoInfo{
		VideoID:    item.ID.VideoID,
		LiveStatus: item.Snippet.LiveBroadcastContent,
	}, true
}
