package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/erd2prisma/internal/config"
	"github.com/tordrt/erd2prisma/internal/model"
	"github.com/tordrt/erd2prisma/internal/persist"
	"github.com/tordrt/erd2prisma/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	n := 0
	st := store.New(store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}))
	return &testAPI{t: t, router: NewRouter(config.DefaultConfig(), st), store: st}
}

func (a *testAPI) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEditorFlow(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodPost, "/api/v1/tables", gin.H{"name": "author"})
	require.Equal(t, http.StatusCreated, rec.Code)
	author := decode[model.Table](t, env.Data)
	assert.Equal(t, "UniqueID", author.Fields[0].Name)

	rec, env = api.do(http.MethodPost, "/api/v1/tables", gin.H{
		"name":   "book",
		"fields": []gin.H{{"name": "id", "type": "Int_autoinc", "pk": true}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	book := decode[model.Table](t, env.Data)

	rec, env = api.do(http.MethodPatch, "/api/v1/tables/"+author.ID+"/fields/0", gin.H{"name": "id"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id", decode[model.Field](t, env.Data).Name)

	rec, _ = api.do(http.MethodPost, "/api/v1/enums", gin.H{"name": "Genre", "values": []string{"FICTION", "POETRY"}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = api.do(http.MethodPost, "/api/v1/tables/"+book.ID+"/fields", gin.H{"name": "genre", "type": "Genre"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"index":1}`, string(env.Data))

	rec, env = api.do(http.MethodPost, "/api/v1/relations", gin.H{"source": author.ID, "target": book.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.OneToMany, decode[model.Relation](t, env.Data).Cardinality)

	rec, env = api.do(http.MethodGet, "/api/v1/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	schema := decode[struct {
		Provider string `json:"provider"`
		Schema   string `json:"schema"`
	}](t, env.Data)
	assert.Equal(t, "postgresql", schema.Provider)
	for _, line := range []string{
		"enum Genre {",
		"  id Int @id @default(autoincrement())",
		"  genre Genre @default(FICTION)",
		"  author_id Int",
		"  author Author @relation(fields: [author_id], references: [id])",
		"  books Book[]",
	} {
		assert.Contains(t, schema.Schema, line)
	}
}

func TestSchemaProviderAndDownload(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.store.AddTable("user", nil, model.Position{})
	require.NoError(t, err)

	_, env := api.do(http.MethodGet, "/api/v1/schema?provider=sqlite", nil)
	assert.Contains(t, string(env.Data), `provider = \"sqlite\"`)

	rec, _ := api.do(http.MethodGet, "/api/v1/schema/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="schema.prisma"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "model User {\n  UniqueID Int @id @default(autoincrement())\n}\n")
}

func TestCompileIsStateless(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodPost, "/api/v1/compile", gin.H{
		"provider": "mysql",
		"tables": []gin.H{
			{"id": "1", "name": "a", "fields": []gin.H{{"name": "id", "type": "Int", "pk": true}}},
		},
		"relations": []gin.H{{"id": "e", "source": "1", "target": "ghost"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[struct {
		Schema      string `json:"schema"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}](t, env.Data)
	assert.Contains(t, result.Schema, `provider = "mysql"`)
	assert.Contains(t, result.Schema, "model A {\n  id Int @id\n}\n")
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, "dangling-relation", result.Diagnostics[0].Code)

	assert.Empty(t, api.store.Snapshot().Tables)
}

func TestErrorStatuses(t *testing.T) {
	api := newTestAPI(t)
	a, _ := api.store.AddTable("a", nil, model.Position{})
	_, _ = api.store.AddEnum("Role", []string{"ADMIN"})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing table", http.MethodDelete, "/api/v1/tables/nope", nil, http.StatusNotFound},
		{"bad field index", http.MethodDelete, "/api/v1/tables/" + a.ID + "/fields/x", nil, http.StatusBadRequest},
		{"field out of range", http.MethodPatch, "/api/v1/tables/" + a.ID + "/fields/9", gin.H{}, http.StatusNotFound},
		{"self relation", http.MethodPost, "/api/v1/relations", gin.H{"source": a.ID, "target": a.ID}, http.StatusBadRequest},
		{"relation missing target", http.MethodPost, "/api/v1/relations", gin.H{"source": a.ID}, http.StatusBadRequest},
		{"duplicate enum", http.MethodPost, "/api/v1/enums", gin.H{"name": "Role", "values": []string{"X"}}, http.StatusConflict},
		{"empty enum", http.MethodPost, "/api/v1/enums", gin.H{"name": "Status", "values": []string{}}, http.StatusBadRequest},
		{"missing enum", http.MethodDelete, "/api/v1/enums/Nope", nil, http.StatusNotFound},
		{"empty rename", http.MethodPatch, "/api/v1/tables/" + a.ID, gin.H{"name": " "}, http.StatusBadRequest},
		{"missing relation", http.MethodPatch, "/api/v1/relations/nope", gin.H{}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := api.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "error", env.Status)
		})
	}
}

func TestUpdateAndDeleteRelation(t *testing.T) {
	api := newTestAPI(t)
	a, _ := api.store.AddTable("a", nil, model.Position{})
	b, _ := api.store.AddTable("b", nil, model.Position{})
	c, _ := api.store.AddTable("c", nil, model.Position{})
	rel, err := api.store.Connect(a.ID, b.ID, "")
	require.NoError(t, err)

	rec, env := api.do(http.MethodPatch, "/api/v1/relations/"+rel.ID, gin.H{"target": c.ID, "relationType": "1:1"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.Relation](t, env.Data)
	assert.Equal(t, c.ID, updated.TargetTableID)
	assert.Equal(t, model.OneToOne, updated.Cardinality)

	rec, _ = api.do(http.MethodDelete, "/api/v1/tables/"+c.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, api.store.Snapshot().Relations)
}

func TestModelReplaceAndReset(t *testing.T) {
	api := newTestAPI(t)

	doc := model.EmptyDocument()
	doc.Tables = append(doc.Tables, model.Table{ID: "x", Name: "thing", Fields: []model.Field{}})
	rec, _ := api.do(http.MethodPut, "/api/v1/model", doc)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, api.store.Snapshot().Tables, 1)

	rec, _ = api.do(http.MethodPut, "/api/v1/model/viewport", gin.H{"viewport": gin.H{"x": 3, "y": 4, "zoom": 2}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Viewport{X: 3, Y: 4, Zoom: 2}, api.store.Document().Viewport)

	rec, env := api.do(http.MethodGet, "/api/v1/model", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "thing", decode[model.Document](t, env.Data).Tables[0].Name)

	rec, _ = api.do(http.MethodDelete, "/api/v1/model", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, api.store.Snapshot().Tables)
}

func TestAutosave(t *testing.T) {
	backend, err := persist.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	repo := persist.NewRepository(backend, "")

	st := store.New()
	srv := NewServer(config.DefaultConfig(), st, repo)
	assert.Equal(t, ":8080", srv.Addr)

	_, err = st.AddTable("user", nil, model.Position{})
	require.NoError(t, err)

	saved, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, st.Document(), saved)
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) { return nil, persist.ErrNotFound }
func (failingBackend) Put(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingBackend) Delete(context.Context, string) error { return nil }
func (failingBackend) Close() error { return nil }

func TestAutosaveFailureIsSwallowed(t *testing.T) {
	st := store.New()
	AttachAutosave(st, persist.NewRepository(failingBackend{}, ""))

	_, err := st.AddTable("user", nil, model.Position{})
	assert.NoError(t, err)
	assert.Len(t, st.Snapshot().Tables, 1)
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/model", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
