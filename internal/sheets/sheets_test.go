package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/snapshot"
	"github.com/silvatech/forestctl/internal/stats"
)

func testPayload(t *testing.T) Payload {
	t.Helper()

	project := &model.Project{
		Name:            "Bosco Nord",
		InventoryAreaHa: 10,
		SpeciesCatalog:  model.DefaultCatalog(),
	}
	inventory := []model.InventoryTree{
		{Species: "pino-domestico", DiameterClass: 30},
	}
	summaries := model.HeightSummaries{
		"pino-domestico": {Average: 15, Count: 1, Min: 15, Max: 15},
	}

	doc := snapshot.Build(project, nil, inventory, summaries)
	st := stats.Compute(project, nil, inventory, summaries)
	return BuildPayload(doc, st, nil)
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	var got Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	require.NoError(t, client.Submit(context.Background(), testPayload(t)))

	assert.Equal(t, "Bosco Nord", got.Document.Project.Name)
	assert.Equal(t, 1, got.Stats.InventoryTrees)
	assert.False(t, got.SubmittedAt.IsZero())
}

func TestSubmit_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond)
	client.limiter = rate.NewLimiter(rate.Inf, 1)

	err := client.Submit(context.Background(), testPayload(t))
	assert.True(t, eris.Is(err, ErrSubmitTimeout))
}

func TestSubmit_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "script error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.Submit(context.Background(), testPayload(t))
	require.Error(t, err)
	// A definite server answer is a real failure, not an ambiguous one.
	assert.False(t, eris.Is(err, ErrSubmitTimeout))
}

func TestSubmit_RetriesOnceAfterTimeout(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			time.Sleep(200 * time.Millisecond)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)
	client.limiter = rate.NewLimiter(rate.Inf, 1)

	require.NoError(t, client.Submit(context.Background(), testPayload(t)))
	assert.Equal(t, 2, attempts)
}
