package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/energycalc/internal/estimator"
	"github.com/jgoulah/energycalc/internal/metrics"
	"github.com/jgoulah/energycalc/internal/report"
	"github.com/jgoulah/energycalc/pkg/models"
)

// HistoryStore records completed estimates
type HistoryStore interface {
	InsertEstimate(rec *models.EstimateRecord) error
	ListEstimates(limit int) ([]models.EstimateRecord, error)
}

// Handlers serves the calculator pages and API
type Handlers struct {
	estimator *estimator.Estimator
	tariff    estimator.Tariff
	history   HistoryStore
	pages     *pages
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandlers creates the handlers. history may be nil to disable recording.
func NewHandlers(est *estimator.Estimator, tariff estimator.Tariff, history HistoryStore, logger *zap.Logger) (*Handlers, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		estimator: est,
		tariff:    tariff,
		history:   history,
		pages:     p,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// result is one estimate with its history ID, empty when not recorded
type result struct {
	ID     string
	Report report.Report
}

// run estimates a profile and updates metrics. The estimate is written to
// history only when record is set.
func (h *Handlers) run(profile models.HouseholdProfile, record bool) (result, error) {
	b, err := h.estimator.Estimate(profile)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrIncompleteProfile):
			metrics.ObserveRejected(metrics.ReasonIncomplete)
		case errors.Is(err, estimator.ErrUnsupportedAppliance):
			metrics.ObserveRejected(metrics.ReasonUnsupported)
		}
		return result{}, err
	}
	metrics.ObserveEstimate(b)

	proj := estimator.Project(b, h.tariff)
	res := result{Report: report.Build(profile, b, proj)}

	if record && h.history != nil {
		rec := report.NewRecord(profile, b, proj, h.now())
		if err := h.history.InsertEstimate(&rec); err != nil {
			// the estimate is still shown
			h.logger.Warn("failed to record estimate", zap.Error(err))
		} else {
			res.ID = rec.ID
		}
	}

	h.logger.Debug("estimate computed",
		zap.String("housing", b.Housing.String()),
		zap.String("policy", b.Policy),
		zap.Float64("daily_kwh", b.TotalConsumption),
	)
	return res, nil
}

// Index renders the empty form
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.pageData(formState{Age: "25", Appliances: map[string]bool{}}))
}

// Submit handles the form. Incomplete or invalid input re-renders the form
// with a blocking message and no result. Only POST submissions are recorded;
// GET renders the same page for shareable links and snapshots.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, h.pageData(formState{}).withError("could not read form"))
		return
	}

	data := h.pageData(newFormState(r.Form))

	profile, err := profileFromForm(r.Form)
	if err != nil {
		metrics.ObserveRejected(metrics.ReasonInvalid)
		h.render(w, http.StatusBadRequest, data.withError(err.Error()))
		return
	}

	res, err := h.run(profile, r.Method == http.MethodPost)
	if err != nil {
		if errors.Is(err, models.ErrIncompleteProfile) {
			h.render(w, http.StatusUnprocessableEntity, data.withError("Please fill in all required fields before calculating!"))
			return
		}
		h.render(w, http.StatusBadRequest, data.withError(err.Error()))
		return
	}

	charts, err := res.Report.ChartsJSON()
	if err != nil {
		h.logger.Error("encoding charts", zap.Error(err))
		h.render(w, http.StatusInternalServerError, data.withError("internal error"))
		return
	}
	data.Result = &res.Report
	data.Charts = charts
	h.render(w, http.StatusOK, data)
}

// applianceJSON is one entry of the API breakdown
type applianceJSON struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	KWh   float64 `json:"kwh"`
}

type breakdownJSON struct {
	Policy     string          `json:"policy"`
	Housing    string          `json:"housing"`
	BaseKWh    float64         `json:"base_kwh"`
	Appliances []applianceJSON `json:"appliances"`
	TotalKWh   float64         `json:"total_kwh"`
}

type estimateResponse struct {
	ID         string            `json:"id,omitempty"`
	Breakdown  breakdownJSON     `json:"breakdown"`
	Projection models.Projection `json:"projection"`
	Charts     report.ChartData  `json:"charts"`
	Tiles      []report.Tile     `json:"tiles"`
	Summary    report.Summary    `json:"summary"`
	Tips       []string          `json:"tips"`
}

func newEstimateResponse(res result) estimateResponse {
	b := res.Report.Breakdown
	bj := breakdownJSON{
		Policy:     b.Policy,
		Housing:    b.Housing.String(),
		BaseKWh:    b.BaseConsumption,
		Appliances: []applianceJSON{},
		TotalKWh:   b.TotalConsumption,
	}
	for _, a := range models.Appliances() {
		if c, ok := b.PerAppliance[a]; ok {
			bj.Appliances = append(bj.Appliances, applianceJSON{Key: a.Key(), Label: a.Label(), KWh: c})
		}
	}
	return estimateResponse{
		ID:         res.ID,
		Breakdown:  bj,
		Projection: res.Report.Projection,
		Charts:     res.Report.Charts(),
		Tiles:      res.Report.Tiles,
		Summary:    res.Report.Summary,
		Tips:       res.Report.Tips,
	}
}

// APIEstimate computes an estimate from a JSON profile
func (h *Handlers) APIEstimate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ObserveRejected(metrics.ReasonInvalid)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile, err := req.toProfile()
	if err != nil {
		metrics.ObserveRejected(metrics.ReasonInvalid)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.run(profile, true)
	if err != nil {
		var incomplete *models.IncompleteProfileError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   incomplete.Error(),
				"missing": incomplete.Missing,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newEstimateResponse(res))
}

type policyJSON struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Active       bool               `json:"active"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// Policies lists the coefficient presets
func (h *Handlers) Policies(w http.ResponseWriter, r *http.Request) {
	var out []policyJSON
	for _, p := range estimator.Policies() {
		pj := policyJSON{
			Name:         p.Name,
			Description:  p.Description,
			Active:       p.Name == h.estimator.Policy().Name,
			Coefficients: map[string]float64{},
		}
		for a, c := range p.Coefficients {
			pj.Coefficients[a.Key()] = c
		}
		out = append(out, pj)
	}
	writeJSON(w, http.StatusOK, out)
}

// History lists recorded estimates, newest first
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.history.ListEstimates(limit)
	if err != nil {
		h.logger.Error("listing history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list history")
		return
	}
	if records == nil {
		records = []models.EstimateRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
