package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/layergraph"
	"github.com/aretw0/layergraph/internal/metrics"
	"github.com/aretw0/layergraph/pkg/domain"
	"github.com/aretw0/layergraph/pkg/dsl"
	"github.com/aretw0/layergraph/pkg/layers"
)

func newTestEditor(t *testing.T, opts ...layergraph.Option) *layergraph.Editor {
	t.Helper()
	b := dsl.New("doc").Title("Doc")
	b.Add("A", layers.Text).Title("Headline")
	b.Add("B", layers.Oval)
	b.Add("G", layers.Group)
	b.Add("C", layers.Rectangle).Under("G")
	b.Add("D", layers.Toggle).Under("G")

	ed := layergraph.New(opts...)
	_, err := ed.Create(context.Background(), b.Document())
	require.NoError(t, err)
	return ed
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSidebarAndGroupToggle(t *testing.T) {
	h := NewHandler(newTestEditor(t))

	w := do(t, h, http.MethodGet, "/documents/doc/sidebar", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeBody[sidebarView](t, w)
	require.Len(t, view.Items, 5)
	assert.Equal(t, "Headline", view.Items[0].Title)
	assert.True(t, view.Items[2].HasChildren)
	assert.Equal(t, 1, view.Items[3].Depth)

	w = do(t, h, http.MethodPost, "/documents/doc/groups/G/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"collapsed":true}`, w.Body.String())

	view = decodeBody[sidebarView](t, do(t, h, http.MethodGet, "/documents/doc/sidebar", ""))
	require.Len(t, view.Items, 3)
	assert.True(t, view.Items[2].Collapsed)
	assert.Equal(t, 2, view.Items[2].Hidden)

	w = do(t, h, http.MethodPost, "/documents/doc/groups/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInspectorFlow(t *testing.T) {
	h := NewHandler(newTestEditor(t))

	w := do(t, h, http.MethodGet, "/documents/doc/inspector", "")
	assert.Equal(t, http.StatusNoContent, w.Code, "empty selection yields no projection")

	w = do(t, h, http.MethodPut, "/documents/doc/selection", `{"ids":["A","B"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPut, "/documents/doc/inspector/opacity", `{"value":0.25}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	view := decodeBody[inspectorView](t, do(t, h, http.MethodGet, "/documents/doc/inspector", ""))
	assert.Equal(t, domain.MultiselectHeader, view.Header)
	assert.True(t, view.Multiselect)
	assert.Empty(t, view.Outputs)

	var found bool
	for _, sec := range view.Sections {
		for _, in := range sec.Inputs {
			if in.Key == "opacity" {
				found = true
				assert.Equal(t, 0.25, in.Value)
				assert.False(t, in.Mixed)
			}
		}
	}
	assert.True(t, found)

	w = do(t, h, http.MethodPut, "/documents/doc/inspector/opacity", `{"value":"high"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPut, "/documents/doc/inspector/text", `{"value":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/documents/doc/sections/Common/toggle", "")
	assert.JSONEq(t, `{"collapsed":true}`, w.Body.String())

	w = do(t, h, http.MethodPut, "/documents/doc/selection", `{"ids":["ghost"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortsAndConnections(t *testing.T) {
	h := NewHandler(newTestEditor(t))

	w := do(t, h, http.MethodPut, "/documents/doc/ports/A/position", `{"value":{"x":3,"y":4}}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/documents/doc/connections",
		`{"from":{"node":"A","port":"opacity"},"to":{"node":"B","port":"opacity"}}`)
	assert.Equal(t, http.StatusNotFound, w.Code, "text has no opacity output")

	w = do(t, h, http.MethodPost, "/documents/doc/connections",
		`{"from":{"node":"D","port":"isOn"},"to":{"node":"A","port":"visible"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPut, "/documents/doc/ports/B/visible/blocked", `{"blocked":true}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPost, "/documents/doc/connections",
		`{"from":{"node":"D","port":"isOn"},"to":{"node":"B","port":"visible"}}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPut, "/documents/doc/ports/B/visible", `{"value":false}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodDelete, "/documents/doc/ports/A/visible/connections", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPut, "/documents/doc/ports/D/isOn", `{"value":true,"kind":"output"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPut, "/documents/doc/ports/Z/isOn", `{"value":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	doc := decodeBody[map[string]any](t, do(t, h, http.MethodGet, "/documents/doc", ""))
	assert.Nil(t, doc["connections"])
}

func TestNodeMutations(t *testing.T) {
	h := NewHandler(newTestEditor(t))

	w := do(t, h, http.MethodPost, "/documents/doc/nodes", `{"id":"N","type":"image","parent":"G","index":0}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/documents/doc/nodes", `{"id":"N","type":"image"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, "/documents/doc/nodes/G/move", `{"parent":"N","index":0}`)
	assert.Equal(t, http.StatusConflict, w.Code, "moving a group under its child is a cycle")

	w = do(t, h, http.MethodPost, "/documents/doc/nodes/A/move", `{"parent":"G","index":99}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodDelete, "/documents/doc/nodes/G", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":["G","N","C","D","A"]}`, w.Body.String())

	view := decodeBody[sidebarView](t, do(t, h, http.MethodGet, "/documents/doc/sidebar", ""))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "B", view.Items[0].NodeID)

	w = do(t, h, http.MethodPost, "/documents/doc/nodes", `{"type":"image"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, http.MethodPost, "/documents/doc/nodes", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocuments(t *testing.T) {
	ed := newTestEditor(t)
	h := NewHandler(ed)

	w := do(t, h, http.MethodGet, "/documents/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"documents":["doc"]}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/documents/missing/sidebar", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/documents/fresh", strings.NewReader("layers:\n  - {id: x, type: text}\n"))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w = do(t, h, http.MethodPut, "/documents/broken", `{"layers":[{"id":"x","type":"hologram"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPost, "/documents/fresh/save", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/documents/fresh/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")

	w = do(t, h, http.MethodDelete, "/documents/fresh", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/documents/fresh", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutInvalidDocumentKeepsEdits(t *testing.T) {
	h := NewHandler(newTestEditor(t))

	w := do(t, h, http.MethodPut, "/documents/doc/ports/A/opacity", `{"value":0.25}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = do(t, h, http.MethodPut, "/documents/doc", `{"layers":[{"id":"x","type":"bogus"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	doc := decodeBody[map[string]any](t, do(t, h, http.MethodGet, "/documents/doc", ""))
	layers := doc["layers"].([]any)
	require.Len(t, layers, 3, "the open document is still the edited one")
	first := layers[0].(map[string]any)
	assert.Equal(t, map[string]any{"opacity": 0.25}, first["inputs"])
}

func TestDrivenInputRejectsEdits(t *testing.T) {
	h := NewHandler(newTestEditor(t))

	w := do(t, h, http.MethodPost, "/documents/doc/connections",
		`{"from":{"node":"D","port":"isOn"},"to":{"node":"A","port":"visible"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPut, "/documents/doc/ports/A/visible", `{"value":false}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.New(reg, nil)
	require.NoError(t, err)

	h := NewHandler(newTestEditor(t, layergraph.WithHooks(c.Hooks())), WithMetrics(reg))
	do(t, h, http.MethodPut, "/documents/doc/selection", `{"ids":["A"]}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `layergraph_mutations_total{type="set_selection"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(newTestEditor(t))
	w := do(t, h, http.MethodOptions, "/documents/doc/sidebar", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	ed := newTestEditor(t)
	srv := httptest.NewServer(NewHandler(ed))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/documents/doc/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return name, data
			}
		}
	}

	name, data := readEvent()
	assert.Equal(t, "ping", name)
	assert.Equal(t, "doc", data)

	doc, err := ed.Open(ctx, "doc")
	require.NoError(t, err)
	require.NoError(t, doc.Store.SetSelection("B"))

	name, data = readEvent()
	assert.Equal(t, "set_selection", name)
	assert.Contains(t, data, `"node_ids":["B"]`)
}
