package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestNotifierPostsToSyncEndpoint(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, slog.New(slog.NewTextHandler(os.Stderr, nil)), nil)
	if n == nil {
		t.Fatal("expected notifier")
	}

	if err := n.Notify(context.Background(), TargetAppointments); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/sync/appointments" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestNotifierDisabledWithoutBaseURL(t *testing.T) {
	n := NewNotifier("  ", nil, nil)
	if n != nil {
		t.Fatalf("expected nil notifier")
	}
	// nil receiver is safe: notifications silently skip.
	if err := n.Notify(context.Background(), TargetProfiles); err != nil {
		t.Fatalf("Notify on nil notifier: %v", err)
	}
	n.NotifyAsync(TargetProfiles)
}
