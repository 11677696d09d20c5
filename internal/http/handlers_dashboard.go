package http

import (
	"context"
	"net/http"

	"numus/internal/core"
	applog "numus/internal/log"
	"numus/internal/render"
	"numus/internal/services"
)

type objectiveView struct {
	Text    string
	Empty   bool
	Editing bool
	Draft   string
}

func newObjectiveView(e *services.ObjectiveEditor) objectiveView {
	return objectiveView{
		Text:    e.DisplayText(),
		Empty:   e.Value() == "",
		Editing: e.State() == services.Editing,
		Draft:   e.Draft(),
	}
}

type dashboardView struct {
	Totals        core.Totals
	Recent        []core.Transaction
	CategoryChart *render.Chart
	TrendChart    *render.Chart
	Goals         []core.GoalProgress
	LinkHints     []core.LinkSuggestion
}

type indexView struct {
	Objective objectiveView
	Dashboard dashboardView
}

// buildDashboard recomputes every aggregate and re-creates both charts,
// destroying the ones previously mounted.
func (s *Server) buildDashboard(ctx context.Context) (services.Snapshot, dashboardView, error) {
	snap, err := s.dashboard.Snapshot(ctx)
	if err != nil {
		return services.Snapshot{}, dashboardView{}, err
	}

	// a chart that fails to render shows its placeholder
	donut, err := render.CategoryChart(snap.Categories)
	if err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Category chart render failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldError, err)
		donut = render.EmptyChart(render.KindDonut)
	}
	trend, err := render.TrendChart(snap.Months, s.formatter)
	if err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Trend chart render failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldError, err)
		trend = render.EmptyChart(render.KindLine)
	}

	return snap, dashboardView{
		Totals:        snap.Totals,
		Recent:        snap.Recent,
		CategoryChart: s.surfaces.Mount(render.SurfaceCategories, donut),
		TrendChart:    s.surfaces.Mount(render.SurfaceTrend, trend),
		Goals:         snap.Goals,
		LinkHints:     snap.LinkHints,
	}, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, view, err := s.buildDashboard(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard load failed", applog.FieldError, err)
		InternalServerError(MsgLoadFailed).Write(w)
		return
	}
	s.execute(w, r, "index.html", indexView{
		Objective: newObjectiveView(services.NewObjectiveEditor(snap.Objective)),
		Dashboard: view,
	})
}

// handleDashboardPartial re-renders the dashboard after any mutation.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	_, view, err := s.buildDashboard(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard load failed", applog.FieldError, err)
		InternalServerError(MsgLoadFailed).Write(w)
		return
	}
	s.execute(w, r, "dashboard", view)
}
