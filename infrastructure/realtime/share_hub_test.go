package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/realtime"
)

func TestServe_RejectsMissingUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/linkedin/share-events", nil)

	realtime.NewShareHub().Serve(c)
	// gin.CreateTestContext has no engine to flush the lazily-set status
	// after the handler returns, so do what gin.Engine does.
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestServe_StreamsUntilRequestContextDone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Request = httptest.NewRequest(http.MethodGet, "/api/linkedin/share-events", nil).WithContext(ctx)
	c.Set("user_id", "7")

	hub := realtime.NewShareHub()
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Serve(c)
	}()

	shareURL := "https://www.linkedin.com/feed/update/urn:li:share:123"
	item := &model.ShareQueueItem{
		ID:     42,
		UserID: "7",
		Target: model.TargetMember,
		Status: model.ShareStatusSuccess,
	}
	// Serve registers the subscriber asynchronously, so repeat the broadcast
	// until registration has certainly happened. The stream body is only read
	// after Serve returned.
	for i := 0; i < 20; i++ {
		hub.BroadcastShareStatus(item, &shareURL)
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after the request context was cancelled")
	}

	body := recorder.Body.String()
	require.Contains(t, body, ":ok\n\n")
	require.Contains(t, body, "event: share_status\n")
	require.Contains(t, body, `"item_id":42`)
	require.Contains(t, body, `"share_url":"https://www.linkedin.com/feed/update/urn:li:share:123"`)
}
