package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestWebhookNotifierDelivers(t *testing.T) {
	var got ports.Notification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, 5*time.Second, testLogger())
	err := n.Notify(context.Background(), ports.Notification{
		TargetRole: domain.RoleClient,
		Subject:    "New query on loan file LF-1",
		Message:    "Share the latest GST returns",
		FileID:     "LF-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, got.TargetRole)
	assert.Equal(t, "LF-1", got.FileID)
}

func TestWebhookNotifierSurfacesUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, 5*time.Second, testLogger())
	err := n.Notify(context.Background(), ports.Notification{TargetRole: domain.RoleKam})
	assert.ErrorContains(t, err, "status 502")
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.Notify(context.Background(), ports.Notification{}))
}
