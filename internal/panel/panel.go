// Package panel owns the per-chart view state of the dashboard. Each of the
// three chart panels loads independently: a new load for a panel cancels that
// panel's in-flight request, and a response that lost the race is discarded
// instead of overwriting newer state. Errors stay scoped to the panel that
// issued the fetch.
package panel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/homesense/dashboard/internal/catalog"
	"github.com/homesense/dashboard/internal/prefs"
	"github.com/homesense/dashboard/internal/render"
	"github.com/homesense/dashboard/internal/types"
)

// ErrSuperseded reports that a newer load for the same panel won the race;
// the result was computed but not installed.
var ErrSuperseded = errors.New("panel: load superseded by a newer request")

// Backend is the slice of the sensor-API client the panels consume.
type Backend interface {
	Timeseries(ctx context.Context, q types.TimeseriesQuery) (*types.TimeseriesResponse, error)
	Scatter(ctx context.Context, q types.ScatterQuery) (*types.ScatterResponse, error)
	Heatmap(ctx context.Context, q types.HeatmapQuery) (*types.RiskHeatmapResponse, error)
}

// slot is the latest-wins state cell for one panel.
type slot struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	section *types.ReportSection
	lastErr error
}

// begin registers a new load: the previous in-flight request for this panel
// is canceled and a sequence number is issued for the commit check.
func (s *slot) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	ctx, s.cancel = context.WithCancel(ctx)
	return ctx, s.seq
}

// commit installs a result only if no newer load started since begin. The
// request's cancel func is invoked so the derived context is released as soon
// as the load settles.
func (s *slot) commit(seq uint64, section *types.ReportSection, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.section = section
	s.lastErr = err
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

func (s *slot) snapshot() (*types.ReportSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.section, s.lastErr
}

// DefaultHousehold scopes preference writes when no household has been
// selected.
const DefaultHousehold = "default"

// Service coordinates the three chart panels against the sensor API.
type Service struct {
	backend  Backend
	validate *validator.Validate
	store    prefs.Store
	log      *slog.Logger
	diseases []types.Disease

	houseMu   sync.RWMutex
	household string

	timeseries slot
	scatter    slot
	heatmap    slot
}

// NewService builds the panel coordinator. store may be nil to skip
// preference persistence. The active household is restored from the store so
// a restarted dashboard keeps writing under the same scope.
func NewService(b Backend, store prefs.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	household := DefaultHousehold
	if store != nil {
		household = store.GetDefault(prefs.KeyHouseholdID, DefaultHousehold)
	}
	return &Service{
		backend:   b,
		validate:  validator.New(),
		store:     store,
		log:       log,
		diseases:  catalog.DefaultDiseases(),
		household: household,
	}
}

// SetHousehold switches the household that subsequent panel loads persist
// preferences under. An empty ID is ignored.
func (s *Service) SetHousehold(id string) {
	if id == "" {
		return
	}
	s.houseMu.Lock()
	s.household = id
	s.houseMu.Unlock()
	s.persist(prefs.KeyHouseholdID, id)
}

// Household returns the active preference scope.
func (s *Service) Household() string {
	s.houseMu.RLock()
	defer s.houseMu.RUnlock()
	return s.household
}

// LoadTimeseries validates, fetches, and renders the timeseries panel, then
// installs the result unless a newer load has started.
func (s *Service) LoadTimeseries(ctx context.Context, q types.TimeseriesQuery) (*types.ReportSection, error) {
	if err := s.checkQuery(q); err != nil {
		return nil, err
	}
	ctx, seq := s.timeseries.begin(ctx)

	resp, err := s.backend.Timeseries(ctx, q)
	if err != nil {
		return nil, s.settle(&s.timeseries, seq, nil, err)
	}

	res, err := render.Timeseries(*resp, render.Options{})
	if err != nil {
		err = types.NewAppError(types.ErrCodeRenderFailed, "timeseries render failed", err)
		return nil, s.settle(&s.timeseries, seq, nil, err)
	}

	section := &types.ReportSection{
		ID:       uuid.NewString(),
		Kind:     types.SectionTimeseries,
		Title:    resp.Title,
		ImagePNG: res.PNG,
		Timeseries: &types.TimeseriesSection{
			Query: q,
			Data:  *resp,
		},
	}
	if !s.timeseries.commit(seq, section, nil) {
		return nil, ErrSuperseded
	}
	s.persistLastPanel(types.SectionTimeseries)
	s.persistPanel(types.SectionTimeseries, prefs.FieldSerial, q.Serial)
	s.persistPanel(types.SectionTimeseries, prefs.FieldInterval, q.Interval)
	s.persistPanel(types.SectionTimeseries, prefs.FieldAggregate, q.Agg)
	return section, nil
}

// LoadScatter validates, fetches, and renders the scatter panel.
func (s *Service) LoadScatter(ctx context.Context, q types.ScatterQuery) (*types.ReportSection, error) {
	if err := s.checkQuery(q); err != nil {
		return nil, err
	}
	ctx, seq := s.scatter.begin(ctx)

	resp, err := s.backend.Scatter(ctx, q)
	if err != nil {
		return nil, s.settle(&s.scatter, seq, nil, err)
	}

	res, err := render.Scatter(*resp, render.Options{})
	if err != nil {
		err = types.NewAppError(types.ErrCodeRenderFailed, "scatter render failed", err)
		return nil, s.settle(&s.scatter, seq, nil, err)
	}

	section := &types.ReportSection{
		ID:       uuid.NewString(),
		Kind:     types.SectionScatter,
		Title:    resp.Title,
		ImagePNG: res.PNG,
		Scatter: &types.ScatterSection{
			Query: q,
			Data:  *resp,
		},
	}
	if !s.scatter.commit(seq, section, nil) {
		return nil, ErrSuperseded
	}
	s.persistLastPanel(types.SectionScatter)
	s.persistPanel(types.SectionScatter, prefs.FieldSerial, q.Serial)
	return section, nil
}

// LoadHeatmap validates, fetches, and renders the risk heatmap panel. An
// empty grid from upstream is a render failure for this panel, not a
// placeholder image.
func (s *Service) LoadHeatmap(ctx context.Context, q types.HeatmapQuery) (*types.ReportSection, error) {
	if err := s.checkQuery(q); err != nil {
		return nil, err
	}
	ctx, seq := s.heatmap.begin(ctx)

	resp, err := s.backend.Heatmap(ctx, q)
	if err != nil {
		return nil, s.settle(&s.heatmap, seq, nil, err)
	}

	diseaseName := ""
	if d := catalog.FindDisease(s.diseases, q.DiseaseKey); d != nil {
		diseaseName = d.Name
	}
	hctx := render.HeatmapContext{
		Serial:          q.Serial,
		Interval:        q.Interval,
		Agg:             q.Agg,
		RangeLabel:      q.RangeLabel(),
		DiseaseKey:      q.DiseaseKey,
		DiseaseName:     diseaseName,
		SelectedMetrics: q.Metrics,
	}
	res, err := render.Heatmap(*resp, hctx, render.Options{})
	if err != nil {
		err = types.NewAppError(types.ErrCodeRenderFailed, "heatmap render failed", err)
		return nil, s.settle(&s.heatmap, seq, nil, err)
	}

	section := &types.ReportSection{
		ID:       uuid.NewString(),
		Kind:     types.SectionHeatmap,
		Title:    resp.Title,
		ImagePNG: res.PNG,
		Heatmap: &types.HeatmapSection{
			Query:       q,
			DiseaseName: diseaseName,
			Data:        *resp,
		},
	}
	if !s.heatmap.commit(seq, section, nil) {
		return nil, ErrSuperseded
	}
	s.persistLastPanel(types.SectionHeatmap)
	s.persistPanel(types.SectionHeatmap, prefs.FieldSerial, q.Serial)
	s.persistPanel(types.SectionHeatmap, prefs.FieldDisease, q.DiseaseKey)
	return section, nil
}

// Snapshot returns the installed section for a panel kind. A panel that has
// never loaded successfully yields a not-found error.
func (s *Service) Snapshot(kind types.SectionKind) (*types.ReportSection, error) {
	var sl *slot
	switch kind {
	case types.SectionTimeseries:
		sl = &s.timeseries
	case types.SectionScatter:
		sl = &s.scatter
	case types.SectionHeatmap:
		sl = &s.heatmap
	default:
		return nil, types.NewAppError(types.ErrCodeNotFoundPanel, "unknown panel kind "+string(kind), nil)
	}
	section, lastErr := sl.snapshot()
	if section == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, types.NewAppError(types.ErrCodeNotFoundPanel, "panel "+string(kind)+" has no loaded chart", nil)
	}
	return section, nil
}

// Sections returns the loaded sections in the fixed report order, skipping
// panels without a successful load.
func (s *Service) Sections() []types.ReportSection {
	out := make([]types.ReportSection, 0, 3)
	for _, sl := range []*slot{&s.timeseries, &s.scatter, &s.heatmap} {
		if section, _ := sl.snapshot(); section != nil {
			out = append(out, *section)
		}
	}
	return out
}

// settle records a failed load against the slot (when still current) and
// normalizes the outgoing error.
func (s *Service) settle(sl *slot, seq uint64, section *types.ReportSection, err error) error {
	if !sl.commit(seq, section, err) {
		return ErrSuperseded
	}
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.Canceled) {
		return ErrSuperseded
	}
	return types.NewAppError(types.ErrCodeUpstreamUnavailable, "panel load failed", err)
}

// checkQuery maps validator failures onto the error taxonomy: a missing
// required field is distinguished from other constraint violations.
func (s *Service) checkQuery(q any) error {
	err := s.validate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return types.NewAppError(
				types.ErrCodeValidationMissingField,
				"missing required field "+fe.Field(),
				err,
			)
		}
		return types.NewAppError(
			types.ErrCodeValidationBadRequest,
			"invalid value for field "+fe.Field(),
			err,
		)
	}
	return types.NewAppError(types.ErrCodeValidationBadRequest, "invalid query", err)
}

// persistPanel remembers a field for one panel kind under the active
// household, so panels of different kinds never clobber each other's
// remembered selections.
func (s *Service) persistPanel(kind types.SectionKind, field, value string) {
	s.persist(prefs.PanelKey(string(kind), s.Household(), field), value)
}

// persistLastPanel remembers which panel the household loaded most recently.
func (s *Service) persistLastPanel(kind types.SectionKind) {
	s.persist(prefs.HouseholdKey(s.Household(), prefs.FieldPanelKind), string(kind))
}

func (s *Service) persist(key, value string) {
	if s.store == nil || value == "" {
		return
	}
	if err := s.store.Set(key, value); err != nil {
		s.log.Warn("preference write failed", "key", key, "error", err)
	}
}
