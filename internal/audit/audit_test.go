package audit_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/JaimeStill/jurispanel/internal/audit"
	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/internal/pgtest"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore() audit.System {
	store := kv.NewMemory()
	return audit.NewStore(store, ids.New(store), discardLogger())
}

func exerciseLog(t *testing.T, sys audit.System) {
	ctx := context.Background()

	first, err := sys.Record(ctx, "Sessão Salva", "Sessão L-001 salva com 3 processos", "L-001")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID != "LOG-001" {
		t.Errorf("first id = %s, want LOG-001", first.ID)
	}

	if _, err := sys.Record(ctx, "Processamento IA", "Análise concluída. 3 processos identificados.", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := sys.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "LOG-002" || entries[1].ID != "LOG-001" {
		t.Errorf("order = %s, %s; want newest first", entries[0].ID, entries[1].ID)
	}
	if entries[1].TargetID != "L-001" || entries[0].TargetID != "" {
		t.Errorf("targets = %q, %q", entries[0].TargetID, entries[1].TargetID)
	}

	limited, err := sys.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "LOG-002" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestStore(t *testing.T) {
	exerciseLog(t, newStore())
}

func TestStoreRetention(t *testing.T) {
	sys := newStore()
	ctx := context.Background()

	for range audit.Retention + 5 {
		if _, err := sys.Record(ctx, "Voto Registrado", "x", ""); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := sys.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != audit.Retention {
		t.Fatalf("kept %d entries, want %d", len(entries), audit.Retention)
	}
	if entries[0].ID != "LOG-1005" {
		t.Errorf("newest = %s, want LOG-1005", entries[0].ID)
	}
	if entries[len(entries)-1].ID != "LOG-006" {
		t.Errorf("oldest = %s, want LOG-006", entries[len(entries)-1].ID)
	}
}

func TestHandler(t *testing.T) {
	sys := newStore()
	ctx := context.Background()
	for range 3 {
		sys.Record(ctx, "Anotação Criada", "Nota no processo 0001", "N-001")
	}

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantCount  int
	}{
		{"default limit", "/logs", http.StatusOK, 3},
		{"explicit limit", "/logs?limit=2", http.StatusOK, 2},
		{"limit above retention", "/logs?limit=5000", http.StatusOK, 3},
		{"invalid limit", "/logs?limit=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var entries []audit.Entry
			if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(entries) != tt.wantCount {
				t.Errorf("got %d entries, want %d", len(entries), tt.wantCount)
			}
		})
	}
}

func TestRepository(t *testing.T) {
	db := pgtest.Open(t)
	store := kv.NewMemory()
	exerciseLog(t, audit.New(db, ids.New(store), discardLogger()))
}

func TestRepositoryOrdering(t *testing.T) {
	db := pgtest.Open(t)
	ctx := context.Background()

	at := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	for _, code := range []string{"LOG-998", "LOG-999", "LOG-1000", "LOG-1001"} {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO logs (id, log_code, logged_at, action, details) VALUES (gen_random_uuid(), $1, $2, 'Voto Registrado', '')",
			code, at); err != nil {
			t.Fatalf("insert %s: %v", code, err)
		}
	}

	sys := audit.New(db, ids.New(kv.NewMemory()), discardLogger())

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 10, []string{"LOG-1001", "LOG-1000", "LOG-999", "LOG-998"}},
		{"newest across width change", 2, []string{"LOG-1001", "LOG-1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := sys.List(ctx, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}

			got := make([]string, len(entries))
			for i, e := range entries {
				got[i] = e.ID
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}
