package figmasync

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/preview"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

const variablesJSON = `{
  "status": 200,
  "meta": {
    "variableCollections": {
      "VariableCollectionId:1": {
        "id": "VariableCollectionId:1", "name": "Design Tokens", "defaultModeId": "1:0",
        "modes": [{"modeId": "1:0", "name": "Default"}],
        "variableIds": ["VariableID:1", "VariableID:2"]
      }
    },
    "variables": {
      "VariableID:1": {"id": "VariableID:1", "name": "colors/primary", "variableCollectionId": "VariableCollectionId:1",
        "valuesByMode": {"1:0": {"r": 1, "g": 0, "b": 0, "a": 1}}},
      "VariableID:2": {"id": "VariableID:2", "name": "colors/legacy", "variableCollectionId": "VariableCollectionId:1",
        "valuesByMode": {"1:0": {"r": 0, "g": 0, "b": 0, "a": 1}}}
    }
  }
}`

const stylesFileJSON = `{
  "name": "Legacy File",
  "styles": {"S:1": {"key": "k1", "name": "Accent", "styleType": "FILL"}},
  "document": {"id": "0:0", "name": "Document", "type": "DOCUMENT", "children": [
    {"id": "1:1", "name": "Swatch", "type": "RECTANGLE", "styles": {"fill": "S:1"},
     "fills": [{"type": "SOLID", "color": {"r": 0, "g": 1, "b": 0, "a": 1}}]}
  ]}
}`

type fakeFigma struct {
	mu        sync.Mutex
	varStatus int
	posted    []figma.PostVariablesRequest
}

func (f *fakeFigma) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/KEY/variables/local", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Figma-Token"))
		if f.varStatus != 0 {
			http.Error(w, `{"status":403,"error":true}`, f.varStatus)
			return
		}
		io.WriteString(w, variablesJSON)
	})
	mux.HandleFunc("GET /files/KEY", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, stylesFileJSON)
	})
	mux.HandleFunc("POST /files/KEY/variables", func(w http.ResponseWriter, r *http.Request) {
		var req figma.PostVariablesRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.posted = append(f.posted, req)
		f.mu.Unlock()
		io.WriteString(w, `{"status":200,"meta":{"tempIdToRealId":{"tmp_var_1":"VariableID:3"}}}`)
	})
	mux.HandleFunc("GET /files/KEY/components", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":200,"meta":{"components":[{"key":"c1","node_id":"3:1","name":"Button"}]}}`)
	})
	mux.HandleFunc("GET /images/KEY", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3:1", r.URL.Query().Get("ids"))
		io.WriteString(w, `{"err":null,"images":{"3:1":"http://`+r.Host+`/render/3-1"}}`)
	})
	mux.HandleFunc("GET /render/3-1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "PNG")
	})
	return mux
}

func newTestSyncer(t *testing.T, f *fakeFigma) *Syncer {
	t.Helper()

	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	s, err := New(Options{
		AccessToken:   "secret",
		FileKey:       "https://www.figma.com/design/KEY/Tokens",
		ClientOptions: []figma.ClientOption{figma.WithBaseURL(srv.URL), figma.WithRetryDelay(time.Millisecond)},
	})
	require.NoError(t, err)
	return s
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Options{FileKey: "KEY"})
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = New(Options{AccessToken: "secret"})
	assert.ErrorIs(t, err, ErrNoFileKey)

	_, err = New(Options{AccessToken: "secret", FileKey: "https://example.com/nope"})
	assert.Error(t, err)

	s, err := New(Options{AccessToken: "secret", FileKey: "KEY"})
	require.NoError(t, err)
	assert.Equal(t, "KEY", s.FileKey())
}

func TestPullVariables(t *testing.T) {
	s := newTestSyncer(t, &fakeFigma{})

	result, err := s.Pull(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceVariables, result.Source)
	assert.Equal(t, []string{tokens.CategoryColors}, result.Tokens.Categories())
	assert.Equal(t, "#ff0000", result.Tokens[tokens.CategoryColors]["colorsprimary"].Value)
}

func TestPullFallsBackToStyles(t *testing.T) {
	s := newTestSyncer(t, &fakeFigma{varStatus: http.StatusForbidden})

	result, err := s.Pull(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceStyles, result.Source)
	assert.Equal(t, "#00ff00", result.Tokens[tokens.CategoryColors]["accent"].Value)
}

func TestPushMergeKeepsOtherVariables(t *testing.T) {
	f := &fakeFigma{}
	s := newTestSyncer(t, f)

	set := tokens.Set{tokens.CategoryColors: {
		"primary": {Value: "#0000ff", Type: "color"},
		"accent":  {Value: "#00ff00", Type: "color"},
	}}

	result, err := s.Push(context.Background(), set, PushOptions{Merge: true})
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, []string{"colors/accent"}, result.Plan.Created)
	assert.Equal(t, []string{"colors/primary"}, result.Plan.Updated)
	assert.Equal(t, []string{"colors/legacy"}, result.Plan.Stale)
	assert.Empty(t, result.Plan.Deleted)
	assert.Equal(t, "VariableID:3", result.IDs["tmp_var_1"])

	require.Len(t, f.posted, 1)
	assert.Empty(t, f.posted[0].VariableCollections)
	assert.Len(t, f.posted[0].VariableModeValues, 2)
}

func TestPushReplaceDeletesStale(t *testing.T) {
	f := &fakeFigma{}
	s := newTestSyncer(t, f)

	set := tokens.Set{tokens.CategoryColors: {"primary": {Value: "#0000ff"}}}

	result, err := s.Push(context.Background(), set, PushOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"colors/legacy"}, result.Plan.Deleted)
	require.Len(t, f.posted, 1)
	require.Len(t, f.posted[0].Variables, 1)
	assert.Equal(t, figma.VariableChange{Action: "DELETE", ID: "VariableID:2"}, f.posted[0].Variables[0])
}

func TestPushDryRunDoesNotPost(t *testing.T) {
	f := &fakeFigma{varStatus: http.StatusInternalServerError}
	s := newTestSyncer(t, f)

	set := tokens.Set{
		tokens.CategoryColors:  {"primary": {Value: "#0000ff"}},
		tokens.CategorySpacing: {},
	}

	result, err := s.Push(context.Background(), set, PushOptions{DryRun: true, Merge: true})
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.Equal(t, []string{"colors/primary"}, result.Plan.Created)
	assert.Equal(t, []string{tokens.CategoryColors}, result.Tokens.Categories())
	assert.Empty(t, f.posted)
}

func TestPushFailsWhenExistingUnreadable(t *testing.T) {
	s := newTestSyncer(t, &fakeFigma{varStatus: http.StatusForbidden})

	_, err := s.Push(context.Background(), tokens.Set{tokens.CategoryColors: {"x": {Value: "#000000"}}}, PushOptions{})

	var apiErr *figma.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestComponents(t *testing.T) {
	s := newTestSyncer(t, &fakeFigma{})

	comps, err := s.Components(context.Background())
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "Button", comps[0].Name)
}

func TestExportPreviews(t *testing.T) {
	s := newTestSyncer(t, &fakeFigma{})
	dir := t.TempDir()

	res, err := s.ExportPreviews(context.Background(), preview.Config{Format: "png", Scales: []float64{1}, OutputDir: dir})
	require.NoError(t, err)
	require.Len(t, res.Assets, 1)
	assert.Equal(t, "button.png", res.Assets[0].FileName)
	assert.Empty(t, res.Errors)

	data, err := os.ReadFile(filepath.Join(dir, "button.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNG", string(data))
}
