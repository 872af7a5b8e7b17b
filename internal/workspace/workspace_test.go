package workspace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/jurispanel/internal/audit"
	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/internal/extraction"
	"github.com/JaimeStill/jurispanel/internal/gateway"
	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/internal/review"
	"github.com/JaimeStill/jurispanel/internal/sessions"
	"github.com/JaimeStill/jurispanel/internal/workspace"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/metrics"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
	"github.com/JaimeStill/jurispanel/pkg/routes"
	"github.com/JaimeStill/jurispanel/pkg/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func str(s string) *string { return &s }

type fakeGateway struct {
	mu       sync.Mutex
	raw      []gateway.RawCase
	metadata cases.Metadata
	err      error
	block    chan struct{}
	started  chan struct{}
}

func (f *fakeGateway) Extract(ctx context.Context, doc gateway.Document) ([]gateway.RawCase, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw, f.err
}

func (f *fakeGateway) ExtractMetadata(ctx context.Context, doc gateway.Document) (cases.Metadata, error) {
	return f.metadata, f.err
}

type fixture struct {
	ws       *workspace.Workspace
	gateway  *fakeGateway
	audit    audit.System
	sessions sessions.System
	docs     documents.System
	blobs    storage.System
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := kv.NewMemory()
	alloc := ids.New(store)
	m := metrics.New("test")
	log := audit.NewStore(store, alloc, discardLogger())

	blobs, err := storage.New(&storage.Config{Backend: storage.BackendFilesystem, Root: t.TempDir()}, discardLogger())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	gw := &fakeGateway{raw: []gateway.RawCase{
		gateway.RawCase(`{"chamada":2,"numero_processo":"0002"}`),
		gateway.RawCase(`{"chamada":1,"numero_processo":"0001"}`),
	}}

	sess := sessions.New(
		sessions.NewKVStore(store, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, discardLogger()),
		alloc, log, discardLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)

	docs := documents.New(blobs, discardLogger())

	ws := workspace.New(workspace.Deps{
		Pipeline:  extraction.New(gw, extraction.NewCache(store, m, discardLogger()), alloc, m, discardLogger()),
		Gateway:   gw,
		Documents: docs,
		Review:    review.New(alloc, log, m, discardLogger()),
		Sessions:  sess,
		Audit:     log,
		Logger:    discardLogger(),
	})

	return &fixture{ws: ws, gateway: gw, audit: log, sessions: sess, docs: docs, blobs: blobs}
}

var pauta = documents.Upload{Filename: "pauta.txt", ContentType: "text/plain", Data: []byte("PAUTA DE JULGAMENTO")}

func (f *fixture) extract(t *testing.T) workspace.Snapshot {
	t.Helper()
	snap, err := f.ws.Extract(context.Background(), pauta, cases.Metadata{Orgao: "1ª Câmara", Relator: "Des. Fulano"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return snap
}

func (f *fixture) lastAction(t *testing.T) string {
	t.Helper()
	entries, err := f.audit.List(context.Background(), 1)
	if err != nil || len(entries) == 0 {
		t.Fatalf("audit list: %v (%d entries)", err, len(entries))
	}
	return entries[0].Action
}

func TestExtract(t *testing.T) {
	f := newFixture(t)
	snap := f.extract(t)

	if len(snap.Cases) != 2 || snap.Cases[0].Chamada != 1 {
		t.Fatalf("cases = %+v", snap.Cases)
	}
	if snap.Metadata.TotalProcessos != "2" {
		t.Errorf("TotalProcessos = %q, want 2", snap.Metadata.TotalProcessos)
	}
	if snap.Source == nil || snap.Source.Filename != "pauta.txt" {
		t.Errorf("Source = %+v", snap.Source)
	}
	if snap.SessionID != "" || snap.Busy {
		t.Errorf("SessionID = %q, Busy = %v", snap.SessionID, snap.Busy)
	}
	if got := f.lastAction(t); got != workspace.ActionProcessed {
		t.Errorf("action = %q, want %q", got, workspace.ActionProcessed)
	}
}

func TestExtractFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.extract(t)

	f.gateway.err = gateway.ErrProviderCall
	_, err := f.ws.Extract(context.Background(), documents.Upload{Filename: "outra.txt", Data: []byte("OUTRA PAUTA")}, cases.Metadata{})
	if !errors.Is(err, gateway.ErrProviderCall) {
		t.Fatalf("err = %v, want ErrProviderCall", err)
	}
	if got := f.lastAction(t); got != workspace.ActionFailed {
		t.Errorf("action = %q, want %q", got, workspace.ActionFailed)
	}
	if snap := f.ws.Snapshot(); len(snap.Cases) != 2 {
		t.Errorf("cases = %d, want previous list kept", len(snap.Cases))
	}
}

func TestExtractArchive(t *testing.T) {
	tests := []struct {
		name        string
		gatewayErr  error
		wantArchive bool
	}{
		{"successful run", nil, true},
		{"failed run", gateway.ErrProviderCall, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.gateway.err = tt.gatewayErr
			ctx := context.Background()

			up := documents.Upload{Filename: "pauta.txt", ContentType: "text/plain", Data: []byte("PAUTA ARQUIVADA")}
			in, err := f.docs.Prepare(up)
			if err != nil {
				t.Fatalf("Prepare: %v", err)
			}

			_, err = f.ws.Extract(ctx, up, cases.Metadata{})
			if !errors.Is(err, tt.gatewayErr) {
				t.Fatalf("err = %v, want %v", err, tt.gatewayErr)
			}

			ok, err := f.blobs.Exists(ctx, in.Source.StorageKey)
			if err != nil {
				t.Fatalf("Exists: %v", err)
			}
			if ok != tt.wantArchive {
				t.Errorf("archived = %v, want %v", ok, tt.wantArchive)
			}
		})
	}
}

func TestExtractBusy(t *testing.T) {
	f := newFixture(t)
	f.gateway.block = make(chan struct{})
	f.gateway.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.ws.Extract(context.Background(), pauta, cases.Metadata{})
		done <- err
	}()
	<-f.gateway.started

	if !f.ws.Snapshot().Busy {
		t.Error("Busy = false during extraction")
	}
	if _, err := f.ws.Extract(context.Background(), pauta, cases.Metadata{}); !errors.Is(err, workspace.ErrBusy) {
		t.Errorf("second Extract err = %v, want ErrBusy", err)
	}
	if _, err := f.ws.Autofill(context.Background(), pauta, cases.Metadata{}); !errors.Is(err, workspace.ErrBusy) {
		t.Errorf("Autofill err = %v, want ErrBusy", err)
	}

	close(f.gateway.block)
	if err := <-done; err != nil {
		t.Fatalf("first Extract: %v", err)
	}
}

func TestAutofill(t *testing.T) {
	f := newFixture(t)
	f.gateway.metadata = cases.Metadata{Relator: "Des. Beltrano", Data: "2024-05-10"}

	md, err := f.ws.Autofill(context.Background(), pauta, cases.Metadata{Orgao: "1ª Câmara", Relator: "Des. Fulano"})
	if err != nil {
		t.Fatalf("Autofill: %v", err)
	}

	want := cases.Metadata{Orgao: "1ª Câmara", Relator: "Des. Beltrano", Data: "2024-05-10"}
	if md != want {
		t.Errorf("metadata = %+v, want %+v", md, want)
	}
	if !f.ws.Snapshot().Metadata.IsZero() {
		t.Error("Autofill changed workspace metadata")
	}
}

func TestVoteClearsSelection(t *testing.T) {
	f := newFixture(t)
	snap := f.extract(t)
	first, second := snap.Cases[0].ID, snap.Cases[1].ID

	f.ws.Select([]string{first, second, "P-999"})
	if got := f.ws.Snapshot().Selection; len(got) != 2 {
		t.Fatalf("selection = %v, want unknown id dropped", got)
	}

	snap, err := f.ws.Vote(context.Background(), str("Concordo"), first)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	for _, c := range snap.Cases {
		if c.Vote == nil || c.Vote.Type != "Concordo" {
			t.Errorf("%s vote = %+v", c.ID, c.Vote)
		}
	}
	if len(snap.Selection) != 0 {
		t.Errorf("selection = %v, want cleared", snap.Selection)
	}
}

func TestNotes(t *testing.T) {
	f := newFixture(t)
	id := f.extract(t).Cases[0].ID
	ctx := context.Background()

	snap, err := f.ws.Annotate(ctx, id, "revisar")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if snap.Cases[0].Note == nil || snap.Cases[0].Note.Text != "revisar" {
		t.Fatalf("note = %+v", snap.Cases[0].Note)
	}

	if _, err := f.ws.DeleteNote(ctx, id, false); !errors.Is(err, review.ErrConfirmationRequired) {
		t.Errorf("DeleteNote unconfirmed err = %v", err)
	}

	snap, err = f.ws.DeleteNote(ctx, id, true)
	if err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if snap.Cases[0].Note != nil {
		t.Error("note not removed")
	}
}

func TestSelection(t *testing.T) {
	f := newFixture(t)
	snap := f.extract(t)
	id := snap.Cases[0].ID

	if snap, _ = f.ws.Toggle(id); len(snap.Selection) != 1 {
		t.Fatalf("toggle on = %v", snap.Selection)
	}
	if snap, _ = f.ws.Toggle(id); len(snap.Selection) != 0 {
		t.Fatalf("toggle off = %v", snap.Selection)
	}
	if _, err := f.ws.Toggle("P-999"); !errors.Is(err, review.ErrCaseNotFound) {
		t.Errorf("toggle unknown err = %v", err)
	}

	f.ws.Toggle(id)
	if snap = f.ws.ToggleAll(); len(snap.Selection) != 2 {
		t.Errorf("toggle all from partial = %v, want all", snap.Selection)
	}
	if snap = f.ws.ToggleAll(); len(snap.Selection) != 0 {
		t.Errorf("toggle all from full = %v, want none", snap.Selection)
	}

	f.ws.ToggleAll()
	if snap = f.ws.ClearSelection(); len(snap.Selection) != 0 {
		t.Errorf("clear = %v", snap.Selection)
	}
}

func TestSaveAndLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.ws.Save(ctx); !errors.Is(err, workspace.ErrNothingToSave) {
		t.Fatalf("empty Save err = %v, want ErrNothingToSave", err)
	}

	f.extract(t)
	saved, err := f.ws.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.SessionID != "L-001" {
		t.Fatalf("SessionID = %q, want L-001", saved.SessionID)
	}

	again, err := f.ws.Save(ctx)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if again.SessionID != saved.SessionID {
		t.Errorf("second Save SessionID = %q, want %q", again.SessionID, saved.SessionID)
	}

	if _, err := f.ws.Reset(false); !errors.Is(err, workspace.ErrConfirmationRequired) {
		t.Errorf("Reset unconfirmed err = %v", err)
	}
	reset, err := f.ws.Reset(true)
	if err != nil || len(reset.Cases) != 0 || reset.SessionID != "" || reset.Source != nil {
		t.Fatalf("Reset = %+v, %v", reset, err)
	}

	loaded, err := f.ws.Load(ctx, saved.SessionID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SessionID != saved.SessionID || len(loaded.Cases) != 2 || loaded.Metadata.Orgao != "1ª Câmara" {
		t.Errorf("loaded = %+v", loaded)
	}
	if got := f.lastAction(t); got != workspace.ActionLoaded {
		t.Errorf("action = %q, want %q", got, workspace.ActionLoaded)
	}

	if _, err := f.ws.Load(ctx, "L-999"); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Load unknown err = %v", err)
	}
}

func newServer(f *fixture) *httptest.Server {
	h := f.ws.Handler(1 << 20)
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes(), h.ExtractionRoutes())
	return httptest.NewServer(mux)
}

func multipartBody(t *testing.T, fields map[string]string, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandler(t *testing.T) {
	f := newFixture(t)
	srv := newServer(f)
	defer srv.Close()

	body, ct := multipartBody(t, map[string]string{"orgao": "1ª Câmara", "relator": "Des. Fulano"}, "pauta.txt", []byte("PAUTA"))
	resp, err := http.Post(srv.URL+"/extractions", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	var snap workspace.Snapshot
	json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(snap.Cases) != 2 || snap.Metadata.Orgao != "1ª Câmara" {
		t.Fatalf("extract status = %d, snapshot = %+v", resp.StatusCode, snap)
	}
	id := snap.Cases[0].ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"get", "GET", "/workspace", "", http.StatusOK},
		{"vote", "POST", "/workspace/cases/" + id + "/vote", `{"type":"Concordo"}`, http.StatusOK},
		{"vote clear", "POST", "/workspace/cases/" + id + "/vote", `{"type":null}`, http.StatusOK},
		{"vote bad body", "POST", "/workspace/cases/" + id + "/vote", `{`, http.StatusBadRequest},
		{"vote unknown case", "POST", "/workspace/cases/P-999/vote", `{"type":"Concordo"}`, http.StatusNotFound},
		{"note", "PUT", "/workspace/cases/" + id + "/note", `{"text":"revisar"}`, http.StatusOK},
		{"note delete unconfirmed", "DELETE", "/workspace/cases/" + id + "/note", "", http.StatusPreconditionRequired},
		{"note delete", "DELETE", "/workspace/cases/" + id + "/note?confirm=true", "", http.StatusOK},
		{"note delete missing", "DELETE", "/workspace/cases/" + id + "/note?confirm=true", "", http.StatusNotFound},
		{"select", "PUT", "/workspace/selection", `{"ids":["` + id + `"]}`, http.StatusOK},
		{"toggle", "POST", "/workspace/selection/" + id, "", http.StatusOK},
		{"toggle all", "POST", "/workspace/selection/all", "", http.StatusOK},
		{"clear selection", "DELETE", "/workspace/selection", "", http.StatusOK},
		{"metadata", "PUT", "/workspace/metadata", `{"orgao":"2ª Câmara"}`, http.StatusOK},
		{"save", "POST", "/workspace/save", "", http.StatusOK},
		{"load unknown", "POST", "/workspace/load/L-999", "", http.StatusNotFound},
		{"load", "POST", "/workspace/load/L-001", "", http.StatusOK},
		{"reset unconfirmed", "POST", "/workspace/reset", "", http.StatusPreconditionRequired},
		{"reset", "POST", "/workspace/reset?confirm=true", "", http.StatusOK},
		{"save empty", "POST", "/workspace/save", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestHandlerAutofill(t *testing.T) {
	f := newFixture(t)
	f.gateway.metadata = cases.Metadata{Data: "2024-05-10"}
	srv := newServer(f)
	defer srv.Close()

	body, ct := multipartBody(t, map[string]string{"orgao": "1ª Câmara"}, "pauta.txt", []byte("PAUTA"))
	resp, err := http.Post(srv.URL+"/extractions/metadata", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var md cases.Metadata
	json.NewDecoder(resp.Body).Decode(&md)
	if resp.StatusCode != http.StatusOK || md.Orgao != "1ª Câmara" || md.Data != "2024-05-10" {
		t.Errorf("status = %d, metadata = %+v", resp.StatusCode, md)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{workspace.ErrBusy, http.StatusConflict},
		{workspace.ErrNothingToSave, http.StatusBadRequest},
		{workspace.ErrConfirmationRequired, http.StatusPreconditionRequired},
		{review.ErrCaseNotFound, http.StatusNotFound},
		{sessions.ErrNotFound, http.StatusNotFound},
		{documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{gateway.ErrProviderCall, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := workspace.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
