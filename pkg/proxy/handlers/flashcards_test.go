package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"studysharper/flashgate/pkg/proxy"
)

type requestLog struct {
	routes []string
	codes  []int
}

func (l *requestLog) ObserveRequest(route, _ string, code int) {
	l.routes = append(l.routes, route)
	l.codes = append(l.codes, code)
}

func newMux(t *testing.T, backend http.HandlerFunc) (*http.ServeMux, *requestLog) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	fwd, err := proxy.NewForwarder(srv.URL,
		proxy.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("NewForwarder() error = %v", err)
	}

	log := &requestLog{}
	mux := http.NewServeMux()
	NewFlashcardHandler(fwd, log).Register(mux)
	return mux, log
}

func TestRegister_DispatchesByMethodAndPath(t *testing.T) {
	var (
		mu                 sync.Mutex
		gotPath, gotMethod string
	)
	mux, log := newMux(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath, gotMethod = r.URL.Path, r.Method
		mu.Unlock()
		io.WriteString(w, `{"success":true}`)
	})

	tests := []struct {
		method    string
		target    string
		body      string
		wantRoute string
		wantPath  string
	}{
		{http.MethodGet, "/api/flashcards/sets", "", "sets.list", "/api/flashcards/sets"},
		{http.MethodDelete, "/api/flashcards/sets/s9", "", "sets.delete", "/api/flashcards/sets/s9"},
		{http.MethodDelete, "/api/flashcards", `{"id":"c3"}`, "flashcards.delete", "/api/flashcards/c3"},
		{http.MethodPost, "/api/flashcards/sets/create", `{"title":"Biology"}`, "sets.create", "/api/flashcards/sets/create"},
		{http.MethodGet, "/api/flashcards/suggest", "", "suggest.list", "/api/flashcards/suggest"},
		{http.MethodPost, "/api/flashcards/review", `{"flashcard_id":"c1","was_correct":true}`, "flashcards.review", "/api/flashcards/review"},
	}

	for _, tt := range tests {
		t.Run(tt.wantRoute, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, body))

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
			}
			mu.Lock()
			method, path := gotMethod, gotPath
			mu.Unlock()
			if method != tt.method || path != tt.wantPath {
				t.Errorf("backend saw %s %s", method, path)
			}
			if last := log.routes[len(log.routes)-1]; last != tt.wantRoute {
				t.Errorf("observed route %q, want %q", last, tt.wantRoute)
			}
		})
	}
}

func TestRegister_UnknownMethod(t *testing.T) {
	mux, log := newMux(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/flashcards", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("code = %d, want 405", rec.Code)
	}
	if len(log.routes) != 0 {
		t.Errorf("unexpected observations %v", log.routes)
	}
}

func TestRoute_ObservesRejections(t *testing.T) {
	mux, log := newMux(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/flashcards", strings.NewReader(`{"front":"x"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", rec.Code)
	}
	if len(log.codes) != 1 || log.codes[0] != http.StatusBadRequest {
		t.Errorf("observed codes %v", log.codes)
	}
}
