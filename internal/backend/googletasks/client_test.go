package googletasks_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"taskmcp/internal/backend/googletasks"
	"taskmcp/internal/service"
	"taskmcp/internal/testutil"
)

func newClient(t *testing.T, api *testutil.FakeTasksAPI) *googletasks.Client {
	t.Helper()
	c, err := googletasks.NewWithHTTPClient(context.Background(), http.DefaultClient, option.WithEndpoint(api.URL()))
	require.NoError(t, err)
	return c
}

func TestExport_CreatesListAndTasks(t *testing.T) {
	api := testutil.NewFakeTasksAPI()
	defer api.Close()
	c := newClient(t, api)

	n, err := c.Export(context.Background(), "Agent", []service.Task{
		{ID: "a", Title: "write spec", Description: "first draft", Status: service.StatusPending},
		{ID: "b", Title: "review spec", Status: service.StatusCompleted},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lists := api.Lists()
	require.Len(t, lists, 1)
	assert.Equal(t, "Agent", lists[0].Title)

	remote := api.Tasks(lists[0].ID)
	require.Len(t, remote, 2)
	assert.Equal(t, "write spec", remote[0].Title)
	assert.Equal(t, "first draft\n\ntaskmcp-id: a", remote[0].Notes)
	assert.Equal(t, "needsAction", remote[0].Status)
	assert.Equal(t, "taskmcp-id: b", remote[1].Notes)
	assert.Equal(t, "completed", remote[1].Status)
}

func TestExport_ReusesListAndPatchesExportedTasks(t *testing.T) {
	api := testutil.NewFakeTasksAPI()
	defer api.Close()
	listID := api.AddList("  agent ")
	api.AddTask(listID, testutil.RemoteTask{Title: "by hand", Status: "needsAction"})
	api.AddTask(listID, testutil.RemoteTask{Title: "old title", Notes: "taskmcp-id: a", Status: "needsAction"})
	c := newClient(t, api)

	n, err := c.Export(context.Background(), "Agent", []service.Task{
		{ID: "a", Title: "new title", Status: service.StatusCompleted},
		{ID: "c", Title: "fresh", Status: "in-progress"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, api.Lists(), 1)
	remote := api.Tasks(listID)
	require.Len(t, remote, 3)
	assert.Equal(t, "by hand", remote[0].Title)
	assert.Equal(t, "new title", remote[1].Title)
	assert.Equal(t, "completed", remote[1].Status)
	assert.Equal(t, "fresh", remote[2].Title)
	assert.Equal(t, "needsAction", remote[2].Status)
}

func TestExport_AmbiguousList(t *testing.T) {
	api := testutil.NewFakeTasksAPI()
	defer api.Close()
	api.AddList("Agent")
	api.AddList("agent")
	c := newClient(t, api)

	_, err := c.Export(context.Background(), "Agent", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous list name")
}

func TestExport_AuthError(t *testing.T) {
	api := testutil.NewFakeTasksAPI()
	defer api.Close()
	api.FailStatus = http.StatusUnauthorized
	c := newClient(t, api)

	_, err := c.Export(context.Background(), "Agent", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired or revoked")
}

func TestNew_MissingCredentials(t *testing.T) {
	cfg := testutil.TempConfig(t)

	_, err := googletasks.New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth_client.json")
}
