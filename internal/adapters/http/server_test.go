package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	turinghttp "github.com/aretw0/turing/internal/adapters/http"
	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...turinghttp.Option) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "inc", testutils.Incrementer()))
	require.NoError(t, store.Save(ctx, "forever", testutils.Forever()))
	return turinghttp.NewHandler(store, opts...), store
}

func do(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	h, _ := setup(t)
	rr := do(h, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	h, _ := setup(t)
	rr := do(h, "GET", "/info", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "turing-http", resp["app"])
	assert.NotEmpty(t, resp["version"])
}

func TestListMachines(t *testing.T) {
	h, _ := setup(t)
	rr := do(h, "GET", "/machines", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"forever", "inc"}, resp["machines"])
}

func TestGetMachine(t *testing.T) {
	h, _ := setup(t)

	rr := do(h, "GET", "/machines/inc", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var view turinghttp.MachineView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "inc", view.Name)
	assert.Len(t, view.States, 2)
	assert.Equal(t, testutils.Incrementer().Transitions(), view.Transitions)

	rr = do(h, "GET", "/machines/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPutAndRawRoundTrip(t *testing.T) {
	h, store := setup(t)
	data, err := codec.Encode(testutils.Incrementer())
	require.NoError(t, err)

	rr := do(h, "PUT", "/machines/copy", data)
	require.Equal(t, http.StatusNoContent, rr.Code)

	loaded, err := store.Load(context.Background(), "copy")
	require.NoError(t, err)
	assert.True(t, testutils.Incrementer().Equal(loaded))

	rr = do(h, "GET", "/machines/copy/raw", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/octet-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, data, rr.Body.Bytes())
}

func TestPutMachine_Invalid(t *testing.T) {
	h, _ := setup(t)

	rr := do(h, "PUT", "/machines/broken", []byte{1, 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	data, err := codec.Encode(testutils.Incrementer())
	require.NoError(t, err)
	rr = do(h, "PUT", "/machines/.hidden", data)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteMachine(t *testing.T) {
	h, store := setup(t)

	rr := do(h, "DELETE", "/machines/inc", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err := store.Load(context.Background(), "inc")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestGetGraph(t *testing.T) {
	h, _ := setup(t)
	rr := do(h, "GET", "/machines/inc/graph", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "graph LR"))
	assert.Contains(t, rr.Body.String(), `q0 -- "-/1,0" --> q1`)
}

func TestRunMachine(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	h, _ := setup(t, turinghttp.WithMetrics(metrics, reg))

	rr := do(h, "POST", "/machines/inc/run", []byte("1\n1\n1\n"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp turinghttp.RunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Halted)
	assert.Equal(t, 4, resp.Steps)
	assert.Equal(t, 1, resp.State)
	assert.Equal(t, 3, resp.Head)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, []tape.Cell{{Index: 0, Symbol: "1"}, {Index: 1, Symbol: "1"}, {Index: 2, Symbol: "1"}, {Index: 3, Symbol: "1"}}, resp.Cells)
	assert.Equal(t, "0: 1\n1: 1\n2: 1\n3: 1\n", resp.Tape)
	assert.Contains(t, resp.Graph, "class q0 visited;")
	assert.Contains(t, resp.Graph, "class q1 current;")
	assert.Empty(t, resp.Error)

	rr = do(h, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "turing_steps_total 4")
	assert.Contains(t, rr.Body.String(), "turing_halts_total 1")
}

func TestRunMachine_StepLimit(t *testing.T) {
	h, _ := setup(t, turinghttp.WithMaxSteps(50))

	rr := do(h, "POST", "/machines/forever/run?max_steps=10", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var resp turinghttp.RunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Halted)
	assert.Equal(t, 10, resp.Steps)
	assert.Contains(t, resp.Error, "step limit")
}

func TestRunMachine_BadInput(t *testing.T) {
	h, _ := setup(t)

	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/machines/inc/run", []byte("1\n??\n")).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/machines/inc/run?max_steps=-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(h, "POST", "/machines/nope/run", nil).Code)
}

func TestMetricsDisabled(t *testing.T) {
	h, _ := setup(t)
	assert.Equal(t, http.StatusNotFound, do(h, "GET", "/metrics", nil).Code)
}

func TestEditMachine(t *testing.T) {
	h, store := setup(t)
	ctx := context.Background()

	require.Equal(t, http.StatusCreated, do(h, "POST", "/machines/walk", nil).Code)
	assert.Equal(t, http.StatusConflict, do(h, "POST", "/machines/walk", nil).Code)

	for i, body := range []string{`{"x":0,"y":0}`, `{"x":100,"y":0}`} {
		rr := do(h, "POST", "/machines/walk/states", []byte(body))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var s domain.State
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
		assert.Equal(t, i, s.ID)
	}

	rr := do(h, "POST", "/machines/walk/transitions", []byte(`{"from":0,"to":1,"read":"a","write":"b","move":"-"}`))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var tr domain.Transition
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tr))
	assert.Equal(t, domain.Transition{From: 0, To: 1, Read: "a", Write: "b", Move: -1}, tr)

	t.Run("Conflicting transition", func(t *testing.T) {
		rr := do(h, "POST", "/machines/walk/transitions", []byte(`{"from":0,"to":0,"read":"a","write":"c"}`))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Bad input", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(h, "POST", "/machines/walk/transitions", []byte(`{"from":0,"to":7,"read":"z"}`)).Code)
		assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/machines/walk/transitions", []byte(`{"from":0,"to":1,"read":"z","move":"left"}`)).Code)
		assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/machines/walk/transitions", []byte(`{"from":0,"to":1,"read":"abcde"}`)).Code)
		assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/machines/walk/states", []byte(`nope`)).Code)
		assert.Equal(t, http.StatusNotFound, do(h, "POST", "/machines/nope/states", []byte(`{}`)).Code)
		assert.Equal(t, http.StatusBadRequest, do(h, "DELETE", "/machines/walk/states/x", nil).Code)
	})

	t.Run("Removing a state cascades", func(t *testing.T) {
		rr := do(h, "DELETE", "/machines/walk/states/1", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp turinghttp.RemoveStateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.State)
		assert.Equal(t, []domain.Transition{tr}, resp.Transitions)

		m, err := store.Load(ctx, "walk")
		require.NoError(t, err)
		assert.Equal(t, 1, m.StateCount())
		assert.Empty(t, m.Transitions())

		assert.Equal(t, http.StatusNotFound, do(h, "DELETE", "/machines/walk/states/1", nil).Code)
	})
}
