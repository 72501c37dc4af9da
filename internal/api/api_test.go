package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeops/ili-alignment/internal/config"
	"github.com/pipeops/ili-alignment/internal/model"
)

func testRouter(t *testing.T) (http.Handler, *Store) {
	t.Helper()
	store := NewStore()
	return Router(store, config.DefaultEngineConfig()), store
}

func TestHandleHealth(t *testing.T) {
	router, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleGetRun_NotFound(t *testing.T) {
	router, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/runs/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAlign_InvalidBody(t *testing.T) {
	router, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/align", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAlign_StructuralError(t *testing.T) {
	router, _ := testRouter(t)
	body, _ := json.Marshal(alignRequest{
		Runs:  [][]model.RawRow{{{FeatureType: "Dent", Distance: "100", DepthPercent: "10"}}},
		Years: []int{2020},
	})
	req := httptest.NewRequest(http.MethodPost, "/align", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAlign_ThenGetRun(t *testing.T) {
	router, _ := testRouter(t)
	body, _ := json.Marshal(alignRequest{
		Runs: [][]model.RawRow{
			{{FeatureType: "Dent", Distance: "100", DepthPercent: "10", ClockPosition: "3:00"}},
			{{FeatureType: "Dent", Distance: "100", DepthPercent: "10", ClockPosition: "3:00"}},
		},
		Years: []int{2015, 2020},
	})
	req := httptest.NewRequest(http.MethodPost, "/align", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.EngineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.RunID)

	getReq := httptest.NewRequest(http.MethodGet, "/runs/"+result.RunID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)
}
