package sessions_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/jurispanel/internal/audit"
	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/internal/pgtest"
	"github.com/JaimeStill/jurispanel/internal/sessions"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

var pageCfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func str(s string) *string { return &s }

type fixture struct {
	sys   sessions.System
	audit audit.System
}

func newFixture(store sessions.Store) *fixture {
	counters := kv.NewMemory()
	alloc := ids.New(counters)
	log := audit.NewStore(counters, alloc, discardLogger())
	return &fixture{
		sys:   sessions.New(store, alloc, log, discardLogger(), pageCfg),
		audit: log,
	}
}

func sampleSession(orgao string) sessions.Session {
	pages := 3
	return sessions.Session{
		Metadata: cases.Metadata{Orgao: orgao, Relator: "Des. Fulano", Data: "2024-05-10"},
		Cases: []cases.Case{
			{
				ID: "P-001", Chamada: 1, NumeroProcesso: "0001", Classe: "Apelação",
				Partes:     []cases.Party{{Role: "Apelante", Name: "Maria", Advogado: "Dr. José"}},
				Tags:       []string{"Tributário"},
				Observacao: str("Vista"),
				Note:       &cases.Note{ID: "N-001", Text: "revisar", CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
				Vote:       &cases.Vote{ID: "VC-001", Type: "Concordo", Timestamp: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)},
			},
			{ID: "P-002", Chamada: 2, NumeroProcesso: "0002", Partes: []cases.Party{}, Tags: []string{}},
		},
		Source: &documents.Source{
			Filename: "pauta.pdf", MimeType: documents.TypePDF, Size: 1024, PageCount: &pages,
			StorageKey: "documents/abc/pauta.pdf", ContentHash: "abc",
			UploadedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func exerciseLifecycle(t *testing.T, f *fixture) {
	ctx := context.Background()
	page := pagination.PageRequest{Page: 1, PageSize: 10}

	if _, err := f.sys.Save(ctx, sessions.Session{}); !errors.Is(err, sessions.ErrEmpty) {
		t.Fatalf("empty save: got %v, want ErrEmpty", err)
	}

	first, err := f.sys.Save(ctx, sampleSession("1ª Turma"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID != "L-001" || first.State != sessions.StateActive {
		t.Fatalf("saved = %s %s", first.ID, first.State)
	}

	second, err := f.sys.Save(ctx, sampleSession("2ª Seção"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Run("find round trip", func(t *testing.T) {
		got, err := f.sys.Find(ctx, first.ID)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if len(got.Cases) != 2 {
			t.Fatalf("got %d cases, want 2", len(got.Cases))
		}

		c := got.Cases[0]
		if c.ID != "P-001" || c.Partes[0].Advogado != "Dr. José" || c.Tags[0] != "Tributário" {
			t.Errorf("case = %+v", c)
		}
		if c.Observacao == nil || *c.Observacao != "Vista" {
			t.Errorf("observacao = %v", c.Observacao)
		}
		if c.Note == nil || c.Note.ID != "N-001" || c.Vote == nil || c.Vote.Type != "Concordo" {
			t.Errorf("note/vote = %+v %+v", c.Note, c.Vote)
		}
		if got.Cases[1].Note != nil || got.Cases[1].Vote != nil || got.Cases[1].Observacao != nil {
			t.Errorf("second case gained optional fields: %+v", got.Cases[1])
		}
		if got.Source == nil || got.Source.StorageKey != "documents/abc/pauta.pdf" || *got.Source.PageCount != 3 {
			t.Errorf("source = %+v", got.Source)
		}
	})

	t.Run("upsert keeps code and creation time", func(t *testing.T) {
		update := sampleSession("1ª Turma Ampliada")
		update.ID = first.ID
		update.Cases = update.Cases[:1]

		saved, err := f.sys.Save(ctx, update)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if saved.ID != first.ID || !saved.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("upsert = %s %v, want %s %v", saved.ID, saved.CreatedAt, first.ID, first.CreatedAt)
		}

		got, _ := f.sys.Find(ctx, first.ID)
		if got.Metadata.Orgao != "1ª Turma Ampliada" || len(got.Cases) != 1 {
			t.Errorf("after upsert = %+v", got.Metadata)
		}
	})

	t.Run("list newest first with search", func(t *testing.T) {
		all, err := f.sys.List(ctx, page)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if all.Total != 2 || all.Data[0].ID != first.ID {
			t.Errorf("list = %+v", all.Data)
		}

		search := pagination.PageRequest{Page: 1, PageSize: 10, Search: str("seção")}
		found, err := f.sys.List(ctx, search)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if found.Total != 1 || found.Data[0].ID != second.ID {
			t.Errorf("search = %+v", found.Data)
		}
	})

	t.Run("trash restore purge", func(t *testing.T) {
		if err := f.sys.Trash(ctx, second.ID); err != nil {
			t.Fatalf("Trash: %v", err)
		}
		if _, err := f.sys.Find(ctx, second.ID); !errors.Is(err, sessions.ErrNotFound) {
			t.Errorf("trashed session still found: %v", err)
		}
		if err := f.sys.Trash(ctx, second.ID); !errors.Is(err, sessions.ErrNotFound) {
			t.Errorf("double trash: got %v", err)
		}

		trash, err := f.sys.ListTrash(ctx, page)
		if err != nil {
			t.Fatalf("ListTrash: %v", err)
		}
		if trash.Total != 1 || trash.Data[0].State != sessions.StateTrashed || trash.Data[0].TrashedAt == nil {
			t.Errorf("trash = %+v", trash.Data)
		}

		if err := f.sys.Purge(ctx, first.ID); !errors.Is(err, sessions.ErrNotFound) {
			t.Errorf("purge active: got %v, want ErrNotFound", err)
		}

		if err := f.sys.Restore(ctx, second.ID); err != nil {
			t.Fatalf("Restore: %v", err)
		}
		if _, err := f.sys.Find(ctx, second.ID); err != nil {
			t.Errorf("restored session not found: %v", err)
		}

		if err := f.sys.Trash(ctx, second.ID); err != nil {
			t.Fatalf("Trash: %v", err)
		}
		if err := f.sys.Purge(ctx, second.ID); err != nil {
			t.Fatalf("Purge: %v", err)
		}
		if err := f.sys.Restore(ctx, second.ID); !errors.Is(err, sessions.ErrNotFound) {
			t.Errorf("restore purged: got %v", err)
		}
	})

	t.Run("audit trail", func(t *testing.T) {
		entries, err := f.audit.List(ctx, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}

		want := []string{
			sessions.ActionPurged,
			sessions.ActionTrashed,
			sessions.ActionRestored,
			sessions.ActionTrashed,
			sessions.ActionSaved,
			sessions.ActionSaved,
			sessions.ActionSaved,
		}
		if len(entries) != len(want) {
			t.Fatalf("got %d entries, want %d", len(entries), len(want))
		}
		for i, action := range want {
			if entries[i].Action != action {
				t.Errorf("entry %d = %s, want %s", i, entries[i].Action, action)
			}
		}
		if entries[len(entries)-1].Details != "Sessão L-001 salva com 2 processos" {
			t.Errorf("first details = %q", entries[len(entries)-1].Details)
		}
	})
}

func TestKVStore(t *testing.T) {
	exerciseLifecycle(t, newFixture(sessions.NewKVStore(kv.NewMemory(), pageCfg, discardLogger())))
}

func TestRepository(t *testing.T) {
	db := pgtest.Open(t)
	exerciseLifecycle(t, newFixture(sessions.NewRepository(db, pageCfg, discardLogger())))
}

func TestHandler(t *testing.T) {
	f := newFixture(sessions.NewKVStore(kv.NewMemory(), pageCfg, discardLogger()))
	ctx := context.Background()

	saved, err := f.sys.Save(ctx, sampleSession("Pleno"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	h := f.sys.Handler()
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes(), h.TrashRoutes())

	tests := []struct {
		name   string
		method string
		url    string
		want   int
	}{
		{"list", http.MethodGet, "/sessions", http.StatusOK},
		{"find", http.MethodGet, "/sessions/" + saved.ID, http.StatusOK},
		{"find missing", http.MethodGet, "/sessions/L-999", http.StatusNotFound},
		{"trash", http.MethodDelete, "/sessions/" + saved.ID, http.StatusNoContent},
		{"list trash", http.MethodGet, "/trash", http.StatusOK},
		{"restore", http.MethodPost, "/trash/" + saved.ID + "/restore", http.StatusNoContent},
		{"purge active", http.MethodDelete, "/trash/" + saved.ID, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.url, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))

	var page pagination.PageResult[sessions.Summary]
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 || page.Data[0].CaseCount != 2 {
		t.Errorf("page = %+v", page)
	}
}
