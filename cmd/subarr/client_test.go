package main

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Status(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectGET().
		RespondJSON(StatusResponse{Status: "ok", DroppedEvents: 3}).
		Build()

	resp, err := NewClient(srv.URL).Status()
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, uint64(3), resp.DroppedEvents)
}

func TestClient_EpisodeSubtitles(t *testing.T) {
	track := int64(2)
	srv := newMockServer(t).
		ExpectPath("/api/v1/episodes/7/subtitles").
		ExpectGET().
		RespondJSON(EpisodeSubtitlesResponse{
			EpisodeID: 7,
			Season:    1,
			Episode:   3,
			Missing:   []string{"de"},
			Subtitles: []SubtitleResponse{
				{ID: 1, Language: "en", Source: "embedded", TrackID: &track},
				{ID: 2, Language: "fr", HI: true, Source: "external", Path: "/tv/a.fr.hi.srt", Size: 10},
			},
		}).
		Build()

	resp, err := NewClient(srv.URL).EpisodeSubtitles(7)
	require.NoError(t, err)
	assert.Equal(t, []string{"de"}, resp.Missing)
	require.Len(t, resp.Subtitles, 2)
	require.NotNil(t, resp.Subtitles[0].TrackID)
	assert.Equal(t, int64(2), *resp.Subtitles[0].TrackID)
	assert.Equal(t, "/tv/a.fr.hi.srt", resp.Subtitles[1].Path)
}

func TestClient_ScanEpisode_SendsCacheFlag(t *testing.T) {
	for _, useCache := range []bool{true, false} {
		var got string
		srv := newMockServer(t).
			ExpectPath("/api/v1/episodes/4/scan").
			ExpectPOST().
			Handler(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get("cache")
				respondJSON(t, w, EpisodeSubtitlesResponse{EpisodeID: 4})
			}).
			Build()

		resp, err := NewClient(srv.URL).ScanEpisode(4, useCache)
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.EpisodeID)
		if useCache {
			assert.Equal(t, "true", got)
		} else {
			assert.Equal(t, "false", got)
		}
	}
}

func TestClient_StartScan(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/scan").
		ExpectPOST().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			respondJSON(t, w, ScanStartedResponse{JobID: "abc"})
		}).
		Build()

	resp, err := NewClient(srv.URL).StartScan()
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.JobID)
}

func TestClient_APIError(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusConflict, "SCAN_RUNNING", "A full scan is already running").
		Build()

	_, err := NewClient(srv.URL).StartScan()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "SCAN_RUNNING", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "already running")
}

func TestClient_APIError_PlainBody(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gateway down", http.StatusBadGateway)
		}).
		Build()

	_, err := NewClient(srv.URL).Status()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Message, "gateway down")
}

func TestClient_Events(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/events").
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			respondJSON(t, w, ListEventsResponse{
				Items: []EventResponse{{ID: 1, EventType: "episode.subtitles_indexed", EntityType: "episode", EntityID: 9}},
				Total: 1,
				Limit: 5,
			})
		}).
		Build()

	resp, err := NewClient(srv.URL).Events(5)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(9), resp.Items[0].EntityID)
}

func TestWaitForJob(t *testing.T) {
	polls := 0
	srv := newMockServer(t).
		ExpectPath("/api/v1/jobs/job-1").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			polls++
			job := JobResponse{ID: "job-1", Name: "full-scan", Status: "running", Current: polls, Total: 3}
			if polls == 3 {
				job.Status = "completed"
			}
			respondJSON(t, w, job)
		}).
		Build()

	var progress strings.Builder
	job, err := waitForJob(NewClient(srv.URL), "job-1", &progress, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "completed", job.Status)
	assert.Equal(t, 3, polls)
	assert.Contains(t, progress.String(), "[1/3]")
	assert.Contains(t, progress.String(), "[2/3]")
}

func TestWaitForJob_NotFound(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusNotFound, "NOT_FOUND", "Job not found").
		Build()

	_, err := waitForJob(NewClient(srv.URL), "gone", &strings.Builder{}, time.Millisecond)
	assert.Error(t, err)
}
