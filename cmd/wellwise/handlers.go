package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simplici0/wellwise/internal/economics"
	"github.com/Simplici0/wellwise/internal/market"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/report"
	"github.com/Simplici0/wellwise/internal/scenario"
	"github.com/Simplici0/wellwise/internal/well"
)

type server struct {
	store    *scenario.Store
	validate *validator.Validate
	client   *market.Client

	mu     sync.Mutex
	tables *refdata.Tables
	market market.Snapshot
}

func newServer(tables *refdata.Tables, snap market.Snapshot, store *scenario.Store) *server {
	return &server{
		tables:   tables,
		market:   snap,
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// withMarket makes the server re-query client for exchange rates as
// requests arrive; the client's limiter decides when a live fetch happens.
func (s *server) withMarket(client *market.Client) *server {
	s.client = client
	return s
}

// state returns the reference tables and market snapshot to serve a request
// with, refreshing exchange rates first when a market client is attached.
// A failed refresh keeps the last live or cached rates.
func (s *server) state(ctx context.Context) (*refdata.Tables, market.Snapshot) {
	var rates market.Result[map[string]float64]
	if s.client != nil {
		rates = s.client.ExchangeRates(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		current := s.market.ExchangeRates.Source
		if !rates.Fallback() || current == "" || current == market.Static {
			s.market.ExchangeRates = rates
			s.tables = s.market.Apply(s.tables)
		}
	}
	return s.tables, s.market
}

type estimateRequest struct {
	well.Parameters
	WellType string `json:"wellType"`
}

type saveScenarioRequest struct {
	Name   string           `json:"name" validate:"required,max=200"`
	Notes  string           `json:"notes" validate:"max=2000"`
	Params *well.Parameters `json:"params" validate:"required"`
}

type patchScenarioRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=200"`
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

type countryInfo struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

type regionInfo struct {
	Key       string                       `json:"key"`
	Name      string                       `json:"name"`
	Countries []countryInfo                `json:"countries"`
	RigTypes  map[string][]refdata.RigType `json:"rigTypes"`
}

type currencyInfo struct {
	Code   string  `json:"code"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

type referenceResponse struct {
	Regions     []regionInfo           `json:"regions"`
	Currencies  []currencyInfo         `json:"currencies"`
	RatesSource market.Source          `json:"ratesSource"`
	OilPrice    market.Result[float64] `json:"oilPrice"`
	Defaults    well.Parameters        `json:"defaults"`
}

// formDefaults are the form defaults with the current oil price.
func formDefaults(snap market.Snapshot) well.Parameters {
	p := well.Defaults()
	if snap.OilPrice.Value > 0 {
		p.OilPrice = snap.OilPrice.Value
	}
	return p
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReference(w http.ResponseWriter, r *http.Request) {
	tables, snap := s.state(r.Context())
	resp := referenceResponse{
		RatesSource: snap.ExchangeRates.Source,
		OilPrice:    snap.OilPrice,
		Defaults:    formDefaults(snap),
	}
	if resp.RatesSource == "" {
		resp.RatesSource = market.Static
	}

	for _, region := range tables.Regions() {
		info := regionInfo{
			Key:      region,
			Name:     tables.RegionName(region),
			RigTypes: make(map[string][]refdata.RigType, 2),
		}
		for _, country := range tables.Countries(region) {
			info.Countries = append(info.Countries, countryInfo{
				Key:        country,
				Name:       tables.CountryName(country),
				Multiplier: tables.Multiplier(region, country),
			})
		}
		for _, loc := range []string{refdata.Onshore, refdata.Offshore} {
			if types := tables.RigTypes(region, loc); len(types) > 0 {
				info.RigTypes[loc] = types
			}
		}
		resp.Regions = append(resp.Regions, info)
	}

	for _, code := range tables.Currencies() {
		resp.Currencies = append(resp.Currencies, currencyInfo{
			Code:   code,
			Symbol: tables.Symbol(code),
			Rate:   tables.ExchangeRate(code),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleRigTypes(w http.ResponseWriter, r *http.Request) {
	tables, _ := s.state(r.Context())
	q := r.URL.Query()
	region := q.Get("region")
	if region == "" {
		region = refdata.DefaultRegion
	}
	location := q.Get("location")
	if location == "" {
		location = refdata.Onshore
	}

	types := tables.RigTypes(region, location)
	if types == nil {
		types = []refdata.RigType{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	tables, snap := s.state(r.Context())
	req := estimateRequest{Parameters: formDefaults(snap)}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, report.NewEstimate(tables, req.Parameters, req.WellType))
}

// handleEstimateQuery estimates from query-string values, coerced the way
// form fields are.
func (s *server) handleEstimateQuery(w http.ResponseWriter, r *http.Request) {
	tables, snap := s.state(r.Context())
	q := r.URL.Query()
	p := formDefaults(snap)

	if v := q.Get("region"); v != "" {
		p = p.WithRegion(v, q.Get("country"))
	} else if v := q.Get("country"); v != "" {
		p.Country = v
	}
	if v := q.Get("location"); v != "" {
		p = p.WithLocation(v)
	}
	if v := q.Get("rigType"); v != "" {
		p.RigType = v
	}
	if q.Has("depth") {
		p.Depth = well.ParseDepth(q.Get("depth"))
	}
	if q.Has("drillingDays") {
		p.DrillingDays = well.ParseDrillingDays(q.Get("drillingDays"))
	}
	if v := q.Get("currency"); v != "" {
		p.Currency = v
	}
	if q.Has("oilPrice") {
		p.OilPrice = well.ParseOilPrice(q.Get("oilPrice"))
	}

	writeJSON(w, http.StatusOK, report.NewEstimate(tables, p, q.Get("wellType")))
}

func (s *server) handleScenariosList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List(r.Context()))
}

func (s *server) handleScenarioCreate(w http.ResponseWriter, r *http.Request) {
	var req saveScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	tables, _ := s.state(r.Context())
	est := report.NewEstimate(tables, *req.Params, economics.Conventional)
	sc := scenario.FromEstimate(req.Name, strings.TrimSpace(req.Notes), est.Params, est.Cost)

	saved, err := s.store.Save(r.Context(), sc)
	if err != nil {
		s.internalError(w, r, "save scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *server) handleScenarioGet(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookupScenario(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *server) handleScenarioUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	var req patchScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		req.Name = &name
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	updated, err := s.store.Update(r.Context(), id, scenario.Patch{Name: req.Name, Notes: req.Notes})
	if errors.Is(err, scenario.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "update scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleScenarioDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.internalError(w, r, "delete scenario", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleScenariosClear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.internalError(w, r, "clear scenarios", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleScenarioText renders a saved scenario as a plain-text report,
// recomputing economics from its parameters.
func (s *server) handleScenarioText(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookupScenario(w, r)
	if !ok {
		return
	}

	tables, _ := s.state(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n", sc.Name)
	if sc.Notes != "" {
		fmt.Fprintf(w, "%s\n", sc.Notes)
	}
	fmt.Fprintf(w, "Saved %s\n\n", sc.SavedAt)
	if err := report.Write(w, tables, report.NewEstimate(tables, sc.Params, "")); err != nil {
		zap.L().Error("write scenario report", zap.Int64("id", sc.ID), zap.Error(err))
	}
}

func (s *server) handleScenariosExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="scenarios.csv"`)
	if err := report.WriteCSV(w, s.store.List(r.Context())); err != nil {
		zap.L().Error("export scenarios", zap.Error(err))
	}
}

func (s *server) lookupScenario(w http.ResponseWriter, r *http.Request) (scenario.Scenario, bool) {
	id, ok := scenarioID(w, r)
	if !ok {
		return scenario.Scenario{}, false
	}
	sc, err := s.store.Get(r.Context(), id)
	if errors.Is(err, scenario.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return scenario.Scenario{}, false
	}
	if err != nil {
		s.internalError(w, r, "get scenario", err)
		return scenario.Scenario{}, false
	}
	return sc, true
}

func (s *server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	zap.L().Error(op,
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func scenarioID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid scenario id")
		return 0, false
	}
	return id, true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	default:
		return field + " is invalid"
	}
}

// writeJSON encodes v before sending the status so encoding failures can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
