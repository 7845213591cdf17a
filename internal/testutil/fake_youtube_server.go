// Package testutil provides test doubles for the upstream YouTube API.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
)

// SearchPath is the path the fake serves search.list on
const SearchPath = "/youtube/v3/search"

// Response is what the fake returns for a channel
type Response struct {
	Status int
	Body   string
}

// Request is a search request received by the fake
type Request struct {
	Query   url.Values
	Referer string
}

// FakeYouTubeServer stands in for the YouTube Data API search endpoint
type FakeYouTubeServer struct {
	s *httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []Request
}

// NewFakeYouTubeServer starts a fake search API. Channels without a
// configured response get an empty item list.
func NewFakeYouTubeServer() *FakeYouTubeServer {
	f := &FakeYouTubeServer{
		responses: make(map[string]Response),
	}

	r := chi.NewRouter()
	r.Get(SearchPath, f.searchHandler)
	f.s = httptest.NewServer(r)

	return f
}

func (f *FakeYouTubeServer) Close() {
	f.s.Close()
}

// URL returns the search endpoint URL
func (f *FakeYouTubeServer) URL() string {
	return f.s.URL + SearchPath
}

// SetResponse sets the raw response for a channel id
func (f *FakeYouTubeServer) SetResponse(channelID string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[channelID] = Response{Status: status, Body: body}
}

// SetVideo makes the channel return a single video
func (f *FakeYouTubeServer) SetVideo(channelID, videoID, liveStatus string) {
	f.SetResponse(channelID, http.StatusOK, VideoBody(videoID, liveStatus))
}

// SetError makes the channel return a Google API error envelope
func (f *FakeYouTubeServer) SetError(channelID string, status int, message string) {
	f.SetResponse(channelID, status, ErrorBody(status, message))
}

// Requests returns the requests received so far
func (f *FakeYouTubeServer) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeYouTubeServer) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	f.mu.Lock()
	f.requests = append(f.requests, Request{Query: query, Referer: r.Header.Get("referer")})
	resp, ok := f.responses[query.Get("channelId")]
	f.mu.Unlock()

	if !ok {
		resp = Response{Status: http.StatusOK, Body: `{"kind":"youtube#searchListResponse","items":[]}`}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	w.Write([]byte(resp.Body))
}

// VideoBody renders a search response holding one video
func VideoBody(videoID, liveStatus string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"kind": "youtube#searchListResponse",
		"items": []map[string]interface{}{
			{
				"id": map[string]string{"kind": "youtube#video", "videoId": videoID},
				"snippet": map[string]string{
					"publishedAt":          "2024-01-20T19:00:00Z",
					"title":                fmt.Sprintf("Video %s", videoID),
					"liveBroadcastContent": liveStatus,
				},
			},
		},
	})
	return string(body)
}

// ErrorBody renders a Google API error envelope
func ErrorBody(status int, message string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
		},
	})
	return string(body)
}
