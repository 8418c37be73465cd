package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

func TestSetupSnapshotsRunsEveryKind(t *testing.T) {
	var (
		mu    sync.Mutex
		kinds []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analytics/jobs/run", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		kinds = append(kinds, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	require.NoError(t, setupSnapshots(srv.URL))
	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, kinds, `{"kind":"sprint"}`)
}

func TestSetupSnapshotsFailsWithoutAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	require.Error(t, setupSnapshots(srv.URL))
}

func TestAnalyticsTargeterCyclesPaths(t *testing.T) {
	targeter := newAnalyticsTargeter("http://svc", "t 1", "p1")
	paths := analyticsPaths("t 1", "p1")

	seen := make([]string, 0, len(paths)+1)
	for range len(paths) + 1 {
		var target vegeta.Target
		require.NoError(t, targeter(&target))
		require.Equal(t, http.MethodGet, target.Method)
		seen = append(seen, target.URL)
	}
	require.Equal(t, "http://svc/analytics/sprints?team_id=t+1", seen[0])
	require.Equal(t, seen[0], seen[len(paths)])
	require.Equal(t, "http://svc/analytics/admin?project_id=p1", seen[len(paths)-1])
}

func TestRunLoadTestCreatesResultsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tmpFile := filepath.Join(t.TempDir(), "results.bin")
	prev := resultsFile
	resultsFile = tmpFile
	defer func() { resultsFile = prev }()

	require.NoError(t, runLoadTest(srv.URL, 1, 20*time.Millisecond, "t1", "p1"))

	info, err := os.Stat(tmpFile)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestRenderReportReadsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "results.bin")
	file, err := os.Create(tmpFile)
	require.NoError(t, err)
	enc := vegeta.NewEncoder(file)
	now := time.Now()
	require.NoError(t, enc.Encode(&vegeta.Result{
		Code:      http.StatusOK,
		Timestamp: now,
		Latency:   time.Millisecond,
		BytesIn:   10,
	}))
	require.NoError(t, file.Close())

	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, tmpFile))
	require.Contains(t, buf.String(), "Requests      [total")
}

func TestWritePlotInstructions(t *testing.T) {
	var buf bytes.Buffer
	prev := resultsFile
	resultsFile = "custom.bin"
	defer func() { resultsFile = prev }()

	writePlotInstructions(&buf)
	require.Contains(t, buf.String(), "vegeta plot custom.bin")
}
