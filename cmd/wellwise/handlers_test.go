package main

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/wellwise/internal/market"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/scenario"
)

func newTestRouter(t *testing.T) (http.Handler, *scenario.Store) {
	t.Helper()
	store := scenario.NewStore(scenario.NewMemoryKV())
	snap := market.Snapshot{
		ExchangeRates: market.Result[map[string]float64]{Value: refdata.StaticExchangeRates(), Source: market.Static},
		OilPrice:      market.Result[float64]{Value: 75, Source: market.Static},
	}
	srv := newServer(refdata.Default(), snap, store)
	return newRouter(srv, []string{"*"}), store
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func TestHealthz(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/estimate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestEstimatePost(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodPost, "/api/estimate", `{"depth":10000,"region":"USA","country":"permianBasin","location":"onshore","rigType":"standard","drillingDays":25,"currency":"USD","oilPrice":75}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Cost struct {
			TotalCost float64 `json:"totalCost"`
			Breakdown []struct {
				Name string `json:"name"`
			} `json:"breakdown"`
		} `json:"cost"`
		Economics struct {
			BreakEvenPrice *float64 `json:"breakEvenPrice"`
			Sensitivity    []any    `json:"sensitivity"`
		} `json:"economics"`
		Recommendation struct {
			Type string `json:"type"`
		} `json:"recommendation"`
	}
	decodeBody(t, rr, &resp)

	assert.InDelta(t, 2625000, resp.Cost.TotalCost, 0.01)
	assert.Len(t, resp.Cost.Breakdown, 3)
	require.NotNil(t, resp.Economics.BreakEvenPrice)
	assert.InDelta(t, 42.14, *resp.Economics.BreakEvenPrice, 0.01)
	assert.Len(t, resp.Economics.Sensitivity, 8)
	assert.Equal(t, "strong", resp.Recommendation.Type)
}

func TestEstimatePostFillsDefaults(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodPost, "/api/estimate", `{"depth":-100,"oilPrice":0}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Params struct {
			Depth    int     `json:"depth"`
			Region   string  `json:"region"`
			OilPrice float64 `json:"oilPrice"`
		} `json:"params"`
		Economics struct {
			BreakEvenPrice *float64 `json:"breakEvenPrice"`
		} `json:"economics"`
	}
	decodeBody(t, rr, &resp)

	assert.Equal(t, 0, resp.Params.Depth)
	assert.Equal(t, "USA", resp.Params.Region)
	assert.InDelta(t, 75, resp.Params.OilPrice, 0.001)
	assert.Nil(t, resp.Economics.BreakEvenPrice)
}

func TestEstimatePostRejectsBadJSON(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodPost, "/api/estimate", `{"depth":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid JSON body")
}

func TestEstimateQueryCoercesInput(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodGet, "/api/estimate?depth=12000ft&location=offshore&region=northSea&country=ukSector&oilPrice=abc", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Params struct {
			Depth        int     `json:"depth"`
			Location     string  `json:"location"`
			RigType      string  `json:"rigType"`
			DrillingDays int     `json:"drillingDays"`
			OilPrice     float64 `json:"oilPrice"`
		} `json:"params"`
		WellType string `json:"wellType"`
		Cost     struct {
			RegionalMultiplier float64 `json:"regionalMultiplier"`
		} `json:"cost"`
	}
	decodeBody(t, rr, &resp)

	assert.Equal(t, 12000, resp.Params.Depth)
	assert.Equal(t, "offshore", resp.Params.Location)
	assert.Equal(t, "jackup", resp.Params.RigType)
	assert.Equal(t, 90, resp.Params.DrillingDays)
	assert.InDelta(t, 75, resp.Params.OilPrice, 0.001)
	assert.InDelta(t, 1.85, resp.Cost.RegionalMultiplier, 1e-9)
}

func TestEstimateQueryNonFiniteOilPrice(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, raw := range []string{"NaN", "Inf", "%2BInf", "-Inf"} {
		rr := doRequest(t, h, http.MethodGet, "/api/estimate?oilPrice="+raw, "")
		require.Equal(t, http.StatusOK, rr.Code, raw)

		var resp struct {
			Params struct {
				OilPrice float64 `json:"oilPrice"`
			} `json:"params"`
			Economics struct {
				NPV float64 `json:"npv"`
			} `json:"economics"`
		}
		decodeBody(t, rr, &resp)
		assert.InDelta(t, 75, resp.Params.OilPrice, 0.001, raw)
		assert.Positive(t, resp.Economics.NPV, raw)
	}
}

func TestWriteJSONReportsEncodingFailure(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusOK, map[string]float64{"npv": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
}

func TestRigTypes(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodGet, "/api/rig-types?region=northSea&location=offshore", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var types []refdata.RigType
	decodeBody(t, rr, &types)
	require.Len(t, types, 3)
	assert.Equal(t, "jackup", types[0].Value)

	rr = doRequest(t, h, http.MethodGet, "/api/rig-types?region=northSea&location=onshore", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestReference(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodGet, "/api/reference", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp referenceResponse
	decodeBody(t, rr, &resp)

	assert.Len(t, resp.Regions, 5)
	assert.Len(t, resp.Currencies, 7)
	assert.Equal(t, market.Static, resp.RatesSource)
	assert.Equal(t, 10000, resp.Defaults.Depth)

	for _, region := range resp.Regions {
		if region.Key == "northSea" {
			assert.Equal(t, "North Sea", region.Name)
			assert.NotContains(t, region.RigTypes, refdata.Onshore)
			assert.Len(t, region.Countries, 3)
		}
	}
}

func TestServerRefreshesExchangeRates(t *testing.T) {
	var hits int32
	fx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1,"GBP":0.5}}`))
	}))
	t.Cleanup(fx.Close)

	client := market.NewClient(market.Options{Live: true, FXURL: fx.URL, MinRefresh: time.Hour})
	store := scenario.NewStore(scenario.NewMemoryKV())
	srv := newServer(refdata.Default(), market.Snapshot{}, store).withMarket(client)
	h := newRouter(srv, []string{"*"})

	var ref referenceResponse
	rr := doRequest(t, h, http.MethodGet, "/api/reference", "")
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &ref)
	assert.Equal(t, market.Live, ref.RatesSource)

	rr = doRequest(t, h, http.MethodGet, "/api/reference", "")
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &ref)
	assert.Equal(t, market.Cached, ref.RatesSource)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	rr = doRequest(t, h, http.MethodGet, "/api/estimate?currency=GBP", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var est struct {
		Cost struct {
			TotalCost float64 `json:"totalCost"`
		} `json:"cost"`
	}
	decodeBody(t, rr, &est)
	assert.InDelta(t, 1312500, est.Cost.TotalCost, 0.01)
}

func TestServerKeepsLiveRatesWhenRefreshFails(t *testing.T) {
	var fail atomic.Bool
	fx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"rates":{"USD":1,"GBP":0.5}}`))
	}))
	t.Cleanup(fx.Close)

	client := market.NewClient(market.Options{Live: true, FXURL: fx.URL})
	srv := newServer(refdata.Default(), market.Snapshot{}, scenario.NewStore(scenario.NewMemoryKV())).withMarket(client)

	tables, snap := srv.state(context.Background())
	require.Equal(t, market.Live, snap.ExchangeRates.Source)
	assert.Equal(t, 0.5, tables.ExchangeRate("GBP"))

	fail.Store(true)
	tables, snap = srv.state(context.Background())
	assert.Equal(t, market.Live, snap.ExchangeRates.Source)
	assert.Equal(t, 0.5, tables.ExchangeRate("GBP"))
}

func createScenario(t *testing.T, h http.Handler, name string) scenario.Scenario {
	t.Helper()
	body := `{"name":"` + name + `","notes":"first pass","params":{"depth":10000,"region":"USA","country":"permianBasin","location":"onshore","rigType":"standard","drillingDays":25,"currency":"USD","oilPrice":75}}`
	rr := doRequest(t, h, http.MethodPost, "/api/scenarios", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var sc scenario.Scenario
	decodeBody(t, rr, &sc)
	return sc
}

func TestScenarioLifecycle(t *testing.T) {
	h, store := newTestRouter(t)

	created := createScenario(t, h, "Permian base")
	assert.Positive(t, created.ID)
	assert.InDelta(t, 2625000, created.TotalCost, 0.01)
	assert.NotEmpty(t, created.SavedAt)

	rr := doRequest(t, h, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []scenario.Scenario
	decodeBody(t, rr, &list)
	require.Len(t, list, 1)

	path := "/api/scenarios/" + strconv.FormatInt(created.ID, 10)

	rr = doRequest(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, h, http.MethodPatch, path, `{"name":"Permian revised"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated scenario.Scenario
	decodeBody(t, rr, &updated)
	assert.Equal(t, "Permian revised", updated.Name)
	assert.Equal(t, "first pass", updated.Notes)

	rr = doRequest(t, h, http.MethodGet, path+"/text", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "Permian revised")
	assert.Contains(t, rr.Body.String(), "$2,625,000")

	rr = doRequest(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, store.List(context.Background()))

	rr = doRequest(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScenarioCreateServerRecomputesCost(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := doRequest(t, h, http.MethodPost, "/api/scenarios", `{"name":"tampered","totalCost":1,"params":{"depth":10000,"region":"USA","country":"permianBasin","location":"onshore","rigType":"standard","drillingDays":25,"currency":"GBP"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var sc scenario.Scenario
	decodeBody(t, rr, &sc)
	assert.InDelta(t, 2073750, sc.TotalCost, 0.01)
	assert.Equal(t, "GBP", sc.Currency)
}

func TestScenarioCreateValidation(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"params":{"depth":1}}`, "name is required"},
		{"blank name", `{"name":"   ","params":{"depth":1}}`, "name is required"},
		{"missing params", `{"name":"x"}`, "params is required"},
		{"long name", `{"name":"` + strings.Repeat("a", 201) + `","params":{}}`, "name must be at most 200"},
		{"bad json", `{"name":`, "invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodPost, "/api/scenarios", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestScenarioUpdateErrors(t *testing.T) {
	h, _ := newTestRouter(t)
	created := createScenario(t, h, "keep")
	path := "/api/scenarios/" + strconv.FormatInt(created.ID, 10)

	rr := doRequest(t, h, http.MethodPatch, path, `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, h, http.MethodPatch, "/api/scenarios/999", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, h, http.MethodPatch, "/api/scenarios/abc", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteUnknownScenarioIsNoop(t *testing.T) {
	h, store := newTestRouter(t)
	createScenario(t, h, "survivor")

	rr := doRequest(t, h, http.MethodDelete, "/api/scenarios/12345", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Len(t, store.List(context.Background()), 1)
}

func TestScenariosClearAndExport(t *testing.T) {
	h, store := newTestRouter(t)
	createScenario(t, h, "one")
	createScenario(t, h, "two")

	rr := doRequest(t, h, http.MethodGet, "/api/scenarios/export.csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,name"))

	rr = doRequest(t, h, http.MethodDelete, "/api/scenarios", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, store.List(context.Background()))

	rr = doRequest(t, h, http.MethodGet, "/api/scenarios", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestValidationMessageFallback(t *testing.T) {
	assert.Equal(t, "invalid request", validationMessage(errors.New("boom")))
}
