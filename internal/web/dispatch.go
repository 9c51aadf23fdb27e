package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/odprema/internal/backend"
	"github.com/erazemk/odprema/internal/cluster"
	"github.com/erazemk/odprema/internal/dispatch"
	"github.com/erazemk/odprema/internal/model"
	"github.com/erazemk/odprema/internal/registry"
	"github.com/erazemk/odprema/internal/store"
)

// HomePage handles GET /. It shows the PO open form and recent
// submissions.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	records, err := store.ListDispatches(r.Context(), s.DB, 10)
	if err != nil {
		slog.Error("failed to list dispatches", "error", err)
	}

	s.Templates.Render(w, "home.html", &struct {
		PageData
		Recent []store.DispatchRecord
	}{
		PageData: PageData{Title: "Dispatch", Username: sess.Username},
		Recent:   records,
	})
}

// HistoryPage handles GET /history.
func (s *Server) HistoryPage(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	records, err := store.ListDispatches(r.Context(), s.DB, 100)
	if err != nil {
		slog.Error("failed to list dispatches", "error", err)
	}

	s.Templates.Render(w, "history.html", &struct {
		PageData
		Records []store.DispatchRecord
	}{
		PageData: PageData{Title: "Submission history", Username: sess.Username},
		Records:  records,
	})
}

// DispatchPage handles GET /dispatch/{poID}. It fetches the purchase
// order's items for the requested phase and opens a fresh draft,
// replacing any previous draft for the same PO.
func (s *Server) DispatchPage(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	poID, err := strconv.ParseInt(r.PathValue("poID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid purchase order id", http.StatusBadRequest)
		return
	}
	phase := r.URL.Query().Get("phase")
	if !model.KnownPhase(phase) {
		http.Error(w, "unknown phase", http.StatusBadRequest)
		return
	}

	po, err := s.runtime(sess).client.ItemsForDispatch(r.Context(), poID, phase)
	if err != nil {
		slog.Error("failed to fetch items for dispatch", "po", poID, "error", err)
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			http.Error(w, "purchase order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}

	d := s.Drafts.Open(sess.ID, poID, phase, po)

	s.Templates.Render(w, "dispatch.html", &struct {
		PageData
		PoID     int64
		Phase    string
		PhaseCfg model.PhaseConfig
		PO       *model.PurchaseOrder
		Clusters []cluster.Cluster
	}{
		PageData: PageData{Title: "Dispatch " + po.Number, Username: sess.Username},
		PoID:     poID,
		Phase:    phase,
		PhaseCfg: model.PhaseFor(phase),
		PO:       po,
		Clusters: d.Clusters(nil),
	})
}

// draft resolves the open draft for the request, writing an error
// response when there is none.
func (s *Server) draft(w http.ResponseWriter, r *http.Request) (*Draft, bool) {
	sess := SessionFrom(r.Context())
	poID, err := strconv.ParseInt(r.PathValue("poID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid purchase order id")
		return nil, false
	}
	d, ok := s.Drafts.Get(sess.ID, poID)
	if !ok {
		jsonError(w, http.StatusConflict, "no open draft for this purchase order")
		return nil, false
	}
	return d, true
}

// draftState is the JSON snapshot returned after every mutation so the
// page can re-render its checkboxes and the submit gate.
type draftState struct {
	Assignments map[model.Kind][]model.Assignment `json:"assignments"`
	Validation  dispatch.Result                   `json:"validation"`
}

func stateOf(reg *registry.Registry) draftState {
	st := draftState{Assignments: make(map[model.Kind][]model.Assignment)}
	for _, k := range model.Kinds {
		col := reg.Get(k)
		if col == nil {
			col = []model.Assignment{}
		}
		st.Assignments[k] = col
	}
	st.Validation = dispatch.Validate(reg)
	return st
}

type toggleRequest struct {
	Kind          model.Kind `json:"kind"`
	LineItemID    int64      `json:"po_line_item_id"`
	ItemDetailsID int64      `json:"po_item_details_id"`
}

// ToggleAction handles POST /dispatch/{poID}/toggle.
func (s *Server) ToggleAction(w http.ResponseWriter, r *http.Request) {
	d, ok := s.draft(w, r)
	if !ok {
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := model.Key{LineItemID: req.LineItemID, ItemDetailsID: req.ItemDetailsID}
	item := d.Item(key)
	if item == nil {
		jsonError(w, http.StatusBadRequest, "unknown item")
		return
	}
	if !item.Actionable() {
		jsonError(w, http.StatusBadRequest, "item is read-only in its current status")
		return
	}

	var st draftState
	d.With(func(e *registry.Engine) {
		e.ToggleSingle(req.Kind, key)
		st = stateOf(e.Registry())
	})
	jsonResponse(w, http.StatusOK, st)
}

type toggleAllRequest struct {
	Kind       model.Kind `json:"kind"`
	LineItemID int64      `json:"po_line_item_id"`
}

// ToggleAllAction handles POST /dispatch/{poID}/toggle-all. It toggles
// every actionable item of the line item at once.
func (s *Server) ToggleAllAction(w http.ResponseWriter, r *http.Request) {
	d, ok := s.draft(w, r)
	if !ok {
		return
	}
	var req toggleAllRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	li := d.LineItem(req.LineItemID)
	if li == nil {
		jsonError(w, http.StatusBadRequest, "unknown line item")
		return
	}

	var st draftState
	d.With(func(e *registry.Engine) {
		e.ToggleAll(req.Kind, li.ActionableKeys())
		st = stateOf(e.Registry())
	})
	jsonResponse(w, http.StatusOK, st)
}

type cutAllRequest struct {
	LineItemID int64 `json:"po_line_item_id"`
}

// CutAllAction handles POST /dispatch/{poID}/cut-all. It removes the
// line item's assignments from all four destinations.
func (s *Server) CutAllAction(w http.ResponseWriter, r *http.Request) {
	d, ok := s.draft(w, r)
	if !ok {
		return
	}
	var req cutAllRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var st draftState
	d.With(func(e *registry.Engine) {
		e.Registry().ClearLineItem(req.LineItemID)
		st = stateOf(e.Registry())
	})
	jsonResponse(w, http.StatusOK, st)
}

type attributeRequest struct {
	Kind          model.Kind `json:"kind"`
	LineItemID    int64      `json:"po_line_item_id"`
	ItemDetailsID int64      `json:"po_item_details_id"`
	Attribute     string     `json:"attribute"`
	ID            int64      `json:"id"`
	Label         string     `json:"name"`
}

// AttributeAction handles POST /dispatch/{poID}/attribute: the user
// picked a location or custodian for one assignment.
func (s *Server) AttributeAction(w http.ResponseWriter, r *http.Request) {
	d, ok := s.draft(w, r)
	if !ok {
		return
	}
	var req attributeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := model.Key{LineItemID: req.LineItemID, ItemDetailsID: req.ItemDetailsID}
	var st draftState
	d.With(func(e *registry.Engine) {
		e.Registry().SetAttribute(req.Kind, key, req.Attribute,
			&model.Ref{ID: req.ID, Label: req.Label})
		st = stateOf(e.Registry())
	})
	jsonResponse(w, http.StatusOK, st)
}

type propagateRequest struct {
	Kind       model.Kind `json:"kind"`
	LineItemID int64      `json:"po_line_item_id"`
	Attribute  string     `json:"attribute"`
	ID         int64      `json:"id"`
	Label      string     `json:"name"`
}

// PropagateAction handles POST /dispatch/{poID}/propagate: apply one
// choice to every assignment of the line item that has none yet.
func (s *Server) PropagateAction(w http.ResponseWriter, r *http.Request) {
	d, ok := s.draft(w, r)
	if !ok {
		return
	}
	var req propagateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var st draftState
	d.With(func(e *registry.Engine) {
		e.Registry().Propagate(req.Kind, req.Attribute,
			model.Ref{ID: req.ID, Label: req.Label}, req.LineItemID)
		st = stateOf(e.Registry())
	})
	jsonResponse(w, http.StatusOK, st)
}

// StateAction handles GET /dispatch/{poID}/state.
func (s *Server) StateAction(w http.ResponseWriter, r *http.Request) {
	d, ok := s.draft(w, r)
	if !ok {
		return
	}
	var st draftState
	d.With(func(e *registry.Engine) {
		st = stateOf(e.Registry())
	})
	jsonResponse(w, http.StatusOK, st)
}

type filterRequest struct {
	Rows []cluster.FilterRow `json:"rows"`
}

// ClustersAction handles POST /dispatch/{poID}/clusters: re-project the
// item list through the given filter rows.
func (s *Server) ClustersAction(w http.ResponseWriter, r *http.Request) {
	d, ok := s.draft(w, r)
	if !ok {
		return
	}
	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clusters := d.Clusters(req.Rows)
	if clusters == nil {
		clusters = []cluster.Cluster{}
	}
	jsonResponse(w, http.StatusOK, clusters)
}

// SubmitAction handles POST /dispatch/{poID}/submit. Validation gates
// the request; a backend failure leaves the draft untouched so the user
// can retry without redoing assignments.
func (s *Server) SubmitAction(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	d, ok := s.draft(w, r)
	if !ok {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if res := dispatch.Validate(d.Reg); !res.Valid {
		jsonError(w, http.StatusUnprocessableEntity, res.Reason)
		return
	}

	body, err := dispatch.Serialize(d.Reg, d.PoID, d.Phase)
	if err != nil {
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.runtime(sess).client.Submit(r.Context(), body); err != nil {
		slog.Error("dispatch submission failed", "po", d.PoID, "error", err)
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			jsonError(w, http.StatusBadGateway, apiErr.Message)
			return
		}
		jsonError(w, http.StatusBadGateway, "backend unavailable")
		return
	}

	if err := store.RecordDispatch(r.Context(), s.DB, body, sess.Username); err != nil {
		slog.Error("failed to journal dispatch", "po", d.PoID, "error", err)
	}
	slog.Info("dispatch submitted", "po", d.PoID, "from", body.DispatchFrom, "user", sess.Username)

	s.Drafts.Discard(sess.ID, d.PoID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "dispatch submitted"})
}

// CancelAction handles POST /dispatch/{poID}/cancel.
func (s *Server) CancelAction(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	poID, err := strconv.ParseInt(r.PathValue("poID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid purchase order id")
		return
	}
	s.Drafts.Discard(sess.ID, poID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "draft discarded"})
}
