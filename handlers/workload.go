package handlers

import (
	"context"
	"fmt"
	"net/http"

	"projectdb/database"
	"projectdb/middleware"
	"projectdb/models"
	"projectdb/workload"
)

// WorkloadStore is the persistence collaborator the workload endpoints use.
type WorkloadStore interface {
	FetchRange(ctx context.Context, f database.Filter) ([]workload.Plan, []workload.Actual, error)
	Names(ctx context.Context, unified []workload.Unified) (map[uint]string, map[uint]string, error)
	GetPlan(ctx context.Context, id uint) (*models.WorkloadPlan, error)
	CreatePlan(ctx context.Context, plan *models.WorkloadPlan) error
	UpdatePlan(ctx context.Context, plan *models.WorkloadPlan) error
	DeletePlan(ctx context.Context, id uint) error
	GetActual(ctx context.Context, id uint) (*models.WorkloadActual, error)
	CreateActual(ctx context.Context, actual *models.WorkloadActual) error
	UpdateActual(ctx context.Context, actual *models.WorkloadActual) error
	DeleteActual(ctx context.Context, id uint) error
}

type WorkloadHandler struct {
	store  WorkloadStore
	codec  *workload.DateCodec
	grid   *workload.GridGenerator
	policy *workload.Policy
}

func NewWorkloadHandler(store WorkloadStore, codec *workload.DateCodec) *WorkloadHandler {
	return &WorkloadHandler{
		store:  store,
		codec:  codec,
		grid:   workload.NewGridGenerator(codec),
		policy: workload.NewPolicy(codec),
	}
}

type workloadView struct {
	workload.Unified
	Status      workload.Status            `json:"status"`
	UserName    string                     `json:"user_name"`
	ProjectName string                     `json:"project_name"`
	Permissions workload.RecordPermissions `json:"permissions"`
}

type dayView struct {
	workload.CalendarDay
	Workloads []workloadView `json:"workloads"`
}

// calendarResponse.Summary covers the days flagged is_current_month: the
// whole week in week mode, the reference month without padding in month mode.
type calendarResponse struct {
	Mode      workload.ViewMode `json:"mode"`
	Reference string            `json:"reference"`
	Today     string            `json:"today"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Days      []dayView         `json:"days"`
	Summary   workload.Summary  `json:"summary"`
}

// scopeFilter narrows a filter to what the viewer may see: employees only
// ever see their own records.
func scopeFilter(viewer workload.Viewer, f database.Filter) database.Filter {
	if !viewer.Privileged() {
		f.UserID = viewer.ID
	}
	return f
}

func (h *WorkloadHandler) reconcile(ctx context.Context, f database.Filter) ([]workload.Unified, map[uint]string, map[uint]string, error) {
	plans, actuals, err := h.store.FetchRange(ctx, f)
	if err != nil {
		return nil, nil, nil, err
	}
	unified := workload.Reconcile(plans, actuals)
	users, projects, err := h.store.Names(ctx, unified)
	if err != nil {
		return nil, nil, nil, err
	}
	workload.SortUnified(unified, users, projects)
	return unified, users, projects, nil
}

func (h *WorkloadHandler) view(viewer workload.Viewer, u workload.Unified, users, projects map[uint]string) workloadView {
	return workloadView{
		Unified:     u,
		Status:      workload.Classify(u),
		UserName:    users[u.UserID],
		ProjectName: projects[u.ProjectID],
		Permissions: h.policy.Permissions(viewer, u),
	}
}

func (h *WorkloadHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	q := r.URL.Query()

	mode, err := workload.ParseViewMode(q.Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	today := h.codec.Today()
	refKey := q.Get("date")
	if refKey == "" {
		refKey = today
	}
	ref, err := h.codec.Parse(refKey)
	if err != nil {
		writeError(w, r, err)
		return
	}

	selected := q.Get("selected")
	if selected != "" {
		if _, err := h.codec.Parse(selected); err != nil {
			writeError(w, r, err)
			return
		}
	}

	userID, err := optionalUint(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := optionalUint(r, "project_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	from, to := h.grid.Range(ref, mode)
	filter := scopeFilter(viewer, database.Filter{From: from, To: to, UserID: userID, ProjectID: projectID})
	unified, users, projects, err := h.reconcile(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	days := workload.Populate(h.grid.GenerateWithToday(ref, mode, selected, today), unified)
	resp := calendarResponse{
		Mode:      mode,
		Reference: refKey,
		Today:     today,
		From:      from,
		To:        to,
		Days:      make([]dayView, len(days)),
	}
	var counted []workload.Unified
	for i, d := range days {
		views := make([]workloadView, len(d.Workloads))
		for j, u := range d.Workloads {
			views[j] = h.view(viewer, u, users, projects)
		}
		resp.Days[i] = dayView{CalendarDay: d, Workloads: views}
		if d.IsCurrentMonth {
			counted = append(counted, d.Workloads...)
		}
	}
	resp.Summary = workload.Summarize(counted)

	writeJSON(w, http.StatusOK, resp)
}

func (h *WorkloadHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	q := r.URL.Query()

	from, to := q.Get("from"), q.Get("to")
	for _, key := range []string{from, to} {
		if _, err := h.codec.Parse(key); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if workload.Compare(from, to) == workload.After {
		writeError(w, r, fmt.Errorf("%w: from is after to", errBadRequest))
		return
	}

	userID, err := optionalUint(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	projectID, err := optionalUint(r, "project_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := scopeFilter(viewer, database.Filter{From: from, To: to, UserID: userID, ProjectID: projectID})
	unified, users, projects, err := h.reconcile(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]workloadView, len(unified))
	for i, u := range unified {
		views[i] = h.view(viewer, u, users, projects)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workloads": views,
		"summary":   workload.Summarize(unified),
	})
}

func (h *WorkloadHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	var payload models.PlanPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.policy.Authorize(viewer, workload.ActionCreatePlan, payload.UserID, payload.Date); err != nil {
		writeError(w, r, err)
		return
	}

	plan := models.WorkloadPlan{UserID: payload.UserID, ProjectID: payload.ProjectID, Date: payload.Date}
	if err := h.store.CreatePlan(r.Context(), &plan); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &plan)
}

func (h *WorkloadHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload models.PlanPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	to := workload.TupleKey{UserID: payload.UserID, ProjectID: payload.ProjectID, Date: payload.Date}
	if err := h.policy.AuthorizeMove(viewer, workload.ActionEditPlan, workload.ActionCreatePlan, plan.Tuple(), to); err != nil {
		writeError(w, r, err)
		return
	}

	plan.UserID, plan.ProjectID, plan.Date = to.UserID, to.ProjectID, to.Date
	if err := h.store.UpdatePlan(r.Context(), plan); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *WorkloadHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.policy.Authorize(viewer, workload.ActionDeletePlan, plan.UserID, plan.Date); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.DeletePlan(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkloadHandler) CreateActual(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	var payload models.ActualPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.policy.Authorize(viewer, workload.ActionCreateActual, payload.UserID, payload.Date); err != nil {
		writeError(w, r, err)
		return
	}

	actual := models.WorkloadActual{
		UserID:      payload.UserID,
		ProjectID:   payload.ProjectID,
		Date:        payload.Date,
		HoursWorked: payload.HoursWorked,
		UserText:    payload.UserText,
	}
	if err := h.store.CreateActual(r.Context(), &actual); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &actual)
}

func (h *WorkloadHandler) UpdateActual(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	actual, err := h.store.GetActual(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload models.ActualPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	to := workload.TupleKey{UserID: payload.UserID, ProjectID: payload.ProjectID, Date: payload.Date}
	if err := h.policy.AuthorizeMove(viewer, workload.ActionEditActual, workload.ActionCreateActual, actual.Tuple(), to); err != nil {
		writeError(w, r, err)
		return
	}

	actual.UserID, actual.ProjectID, actual.Date = to.UserID, to.ProjectID, to.Date
	actual.HoursWorked = payload.HoursWorked
	actual.UserText = payload.UserText
	if err := h.store.UpdateActual(r.Context(), actual); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, actual)
}

func (h *WorkloadHandler) DeleteActual(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	actual, err := h.store.GetActual(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.policy.Authorize(viewer, workload.ActionDeleteActual, actual.UserID, actual.Date); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.DeleteActual(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
