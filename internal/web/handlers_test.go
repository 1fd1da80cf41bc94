package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jgoulah/energycalc/internal/estimator"
	"github.com/jgoulah/energycalc/pkg/models"
)

type fakeHistory struct {
	mu      sync.Mutex
	records []models.EstimateRecord
	failing bool
}

func (f *fakeHistory) InsertEstimate(rec *models.EstimateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("disk full")
	}
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeHistory) ListEstimates(limit int) ([]models.EstimateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > 0 && limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func newTestRouter(t *testing.T, policy estimator.Policy, history HistoryStore) http.Handler {
	t.Helper()
	h, err := NewHandlers(estimator.New(policy), estimator.DefaultTariff(), history, zap.NewNop())
	require.NoError(t, err)
	return NewRouter(h, true)
}

func completeForm() url.Values {
	return url.Values{
		"name":     {"Priya"},
		"age":      {"34"},
		"city":     {"Mumbai"},
		"area":     {"Bandra West"},
		"dwelling": {"Flat"},
		"housing":  {"2BHK"},
	}
}

func postForm(router http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestIndexRendersForm(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<form method="post" action="/estimate">`)
	assert.Contains(t, body, `value="4BHK&#43;"`)
	assert.Contains(t, body, `name="microwave"`)
	assert.NotContains(t, body, `id="pie-chart"`)
	assert.NotContains(t, body, `<div class="energy-result">`)
}

func TestIndexHidesUnsupportedAppliances(t *testing.T) {
	router := newTestRouter(t, estimator.Uniform(), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rr.Body.String()
	assert.Contains(t, body, `name="washing_machine"`)
	assert.NotContains(t, body, `name="tv"`)
}

func TestSubmitComplete(t *testing.T) {
	history := &fakeHistory{}
	router := newTestRouter(t, estimator.Uniform(), history)

	form := completeForm()
	form.Set("ac", "yes")
	form.Set("fridge", "Yes")
	form.Set("washing_machine", "on")

	rr := postForm(router, form)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "Total Energy Consumption: 12.6 kWh/day")
	assert.Contains(t, body, "378.0 kWh")
	assert.Contains(t, body, "Bandra West, Mumbai")
	assert.Contains(t, body, "Plotly.newPlot")
	assert.Contains(t, body, `id="pie-chart"`)

	require.Len(t, history.records, 1)
	assert.Equal(t, []string{"ac", "fridge", "washing_machine"}, history.records[0].Appliances)
}

func TestSubmitViaQueryString(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), nil)

	q := completeForm()
	q.Set("housing", "3BHK")
	q.Set("ac", "yes")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/estimate?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Total Energy Consumption: 7.8 kWh/day")
}

func TestSubmitViaQueryStringIsNotRecorded(t *testing.T) {
	history := &fakeHistory{}
	router := newTestRouter(t, estimator.Differentiated(), history)

	q := completeForm()
	q.Set("ac", "yes")

	// reloads and snapshot captures hit the same URL repeatedly
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/estimate?"+q.Encode(), nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `id="pie-chart"`)
	}
	assert.Empty(t, history.records)

	rr := postForm(router, q)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, history.records, 1)
}

func TestSubmitIncomplete(t *testing.T) {
	history := &fakeHistory{}
	router := newTestRouter(t, estimator.Differentiated(), history)

	form := completeForm()
	form.Del("name")
	form.Set("ac", "yes")

	rr := postForm(router, form)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "Please fill in all required fields before calculating!")
	assert.NotContains(t, body, `id="pie-chart"`)
	assert.NotContains(t, body, `<div class="energy-result">`)
	// submitted values are kept
	assert.Contains(t, body, `value="Mumbai"`)
	assert.Empty(t, history.records)
}

func TestSubmitPlaceholderHousing(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), nil)

	form := completeForm()
	form.Set("housing", "Select Option")

	rr := postForm(router, form)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestSubmitInvalidValues(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), nil)

	form := completeForm()
	form.Set("housing", "9BHK")

	rr := postForm(router, form)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown housing configuration")
}

func TestSubmitStillRendersWhenHistoryFails(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), &fakeHistory{failing: true})

	rr := postForm(router, completeForm())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Total Energy Consumption: 3.6 kWh/day")
}

func TestAPIEstimate(t *testing.T) {
	history := &fakeHistory{}
	router := newTestRouter(t, estimator.Differentiated(), history)

	body := `{"name":"Priya","age":34,"city":"Mumbai","area":"Bandra West","dwelling":"flat","housing":"3bhk","appliances":{"ac":true,"tv":false}}`
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp estimateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "3BHK", resp.Breakdown.Housing)
	assert.Equal(t, 4.8, resp.Breakdown.BaseKWh)
	require.Len(t, resp.Breakdown.Appliances, 1)
	assert.Equal(t, "ac", resp.Breakdown.Appliances[0].Key)
	assert.InDelta(t, 7.8, resp.Breakdown.TotalKWh, 1e-9)
	assert.InDelta(t, 1170.0, resp.Projection.MonthlyCost, 1e-9)
	assert.Len(t, resp.Projection.Seasonal, 12)
	assert.Equal(t, []string{"Base (3BHK)", "Air Conditioner"}, resp.Charts.Pie.Labels)
	assert.Equal(t, resp.ID, history.records[0].ID)
}

func TestAPIEstimateIncomplete(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), nil)

	body := `{"name":"","age":34,"city":"Mumbai","area":"Bandra West","dwelling":"Flat","housing":"2BHK"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader(body)))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var resp struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"name"}, resp.Missing)
}

func TestAPIEstimateBadRequests(t *testing.T) {
	router := newTestRouter(t, estimator.Uniform(), nil)

	tests := map[string]string{
		"malformed":         `{"name":`,
		"unknown appliance": `{"name":"a","age":30,"city":"b","area":"c","dwelling":"Flat","housing":"1BHK","appliances":{"heater":true}}`,
		"unsupported":       `{"name":"a","age":30,"city":"b","area":"c","dwelling":"Flat","housing":"1BHK","appliances":{"tv":true}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestPolicies(t *testing.T) {
	router := newTestRouter(t, estimator.Uniform(), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/policies", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got []policyJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, p.Name == estimator.PolicyUniform, p.Active)
	}
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		router := newTestRouter(t, estimator.Differentiated(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("lists records", func(t *testing.T) {
		history := &fakeHistory{}
		router := newTestRouter(t, estimator.Differentiated(), history)
		postForm(router, completeForm())
		postForm(router, completeForm())

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var got []models.EstimateRecord
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("bad limit", func(t *testing.T) {
		router := newTestRouter(t, estimator.Differentiated(), &fakeHistory{})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history?limit=x", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	postForm(router, completeForm())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "energycalc_estimates_total")
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, estimator.Differentiated(), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/estimate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
