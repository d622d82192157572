package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jaki95/video-factory/internal/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobEndpoints(t *testing.T) {
	gen := &fakeGenerator{uri: "https://files/v.mp4"}
	server := newTestServer(t, gen)

	var ids []string
	for _, prompt := range []string{"one", "two", "three"} {
		server.studio.Session().SetPrompt(prompt)
		status, err := server.studio.StartGeneration()
		require.NoError(t, err)
		server.studio.Wait()
		ids = append(ids, status.ID)
	}

	rr := doJSON(t, server, http.MethodGet, "/api/v1/jobs/"+ids[0], nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var status job.Status
	decode(t, rr, &status)
	assert.Equal(t, job.StatusCompleted, status.Status)
	require.NotNil(t, status.Video)
	assert.Equal(t, "https://files/v.mp4", status.Video.URI)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/jobs?page=1&pageSize=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page job.Response
	decode(t, rr, &page)
	assert.Equal(t, 3, page.TotalJobs)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Jobs, 2)
	assert.Equal(t, ids[2], page.Jobs[0].ID)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/jobs?pageSize=1000", nil)
	decode(t, rr, &page)
	assert.Equal(t, job.DefaultPageSize, page.PageSize)
}

func TestStreamJob(t *testing.T) {
	gen := &fakeGenerator{uri: "https://files/v.mp4", release: make(chan struct{})}
	server := newTestServer(t, gen)
	server.studio.Session().SetPrompt("northern lights")

	status, err := server.studio.StartGeneration()
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/jobs/" + status.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first JobMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "status", first.Type)
	require.NotNil(t, first.Status)
	assert.Equal(t, status.ID, first.Status.ID)

	close(gen.release)

	var last JobMessage
	for {
		var msg JobMessage
		if err := conn.ReadJSON(&msg); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		last = msg
	}

	assert.Equal(t, "status", last.Type)
	require.NotNil(t, last.Status)
	assert.Equal(t, job.StatusCompleted, last.Status.Status)
}

func TestStreamUnknownJob(t *testing.T) {
	server := newTestServer(t, nil)
	rr := doJSON(t, server, http.MethodGet, "/api/v1/jobs/missing/ws", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
