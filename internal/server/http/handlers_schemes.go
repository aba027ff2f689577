package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/server/metrics"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

type farmerSchemesView struct {
	FarmerID int64
	Schemes  []*models.SchemeApplication
}

type govtSchemesView struct {
	Official string
	Schemes  []*models.SchemeApplication
}

func (s *Server) handleFarmerSchemes(w http.ResponseWriter, r *http.Request) {
	farmerID := parseID(r.URL.Query().Get("farmer_id"))
	if farmerID == 0 {
		writeText(w, http.StatusBadRequest, "Invalid farmer id.")
		return
	}

	apps, err := s.schemes.ListByFarmer(r.Context(), farmerID)
	if err != nil {
		s.logger.Error(r.Context(), "error listing schemes", "farmer_id", farmerID, "error", err)
		writeText(w, http.StatusInternalServerError, "Error fetching schemes.")
		return
	}

	s.render(w, r, "schemes", farmerSchemesView{FarmerID: farmerID, Schemes: apps})
}

func (s *Server) handleGovtSchemes(w http.ResponseWriter, r *http.Request) {
	apps, err := s.schemes.ListAll(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "error listing schemes", "error", err)
		writeText(w, http.StatusInternalServerError, "Error fetching schemes.")
		return
	}

	view := govtSchemesView{Schemes: apps}
	if sess := sessionFromContext(r.Context()); sess != nil {
		view.Official = sess.Username
	}
	s.render(w, r, "govt-schemes", view)
}

func (s *Server) handleApplyScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f := applyForm{
		FarmID:      parseID(r.PostFormValue("farm_id")),
		DateApplied: field(r, "date_applied"),
		Name:        field(r, "name"),
	}
	if err := s.validate.Struct(f); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid scheme application.")
		return
	}

	app, err := s.schemes.Apply(ctx, f.FarmID, f.DateApplied, f.Name)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeText(w, http.StatusBadRequest, "Invalid scheme application.")
			return
		}
		s.logger.Error(ctx, "error applying for scheme", "farm_id", f.FarmID, "error", err)
		writeText(w, http.StatusInternalServerError, "Error applying for scheme.")
		return
	}

	metrics.SchemeApplications.Inc()
	s.logger.Info(ctx, "scheme application received", "id", app.ID, "farm_id", app.FarmID)
	redirect(w, r, "/schemes?farmer_id="+strconv.FormatInt(app.FarmID, 10))
}

func (s *Server) handleApproveScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f := approveForm{
		SchemeID: parseID(r.PostFormValue("scheme_id")),
		Action:   field(r, "action"),
	}
	if err := s.validate.Struct(f); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid scheme decision.")
		return
	}
	action := models.SchemeAction(f.Action)

	err := s.schemes.Transition(ctx, f.SchemeID, action)
	metrics.SchemeTransitions.WithLabelValues(f.Action, metrics.Result(err)).Inc()
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeText(w, http.StatusNotFound, "Scheme not found.")
		return
	case errors.Is(err, common.ErrorValidation):
		writeText(w, http.StatusBadRequest, "Invalid scheme decision.")
		return
	case err != nil:
		s.logger.Error(ctx, "error updating scheme", "scheme_id", f.SchemeID, "action", f.Action, "error", err)
		writeText(w, http.StatusInternalServerError, "Error updating scheme.")
		return
	}

	official := ""
	if sess := sessionFromContext(ctx); sess != nil {
		official = sess.Username
	}
	s.logger.Info(ctx, "scheme reviewed", "scheme_id", f.SchemeID, "action", f.Action, "official", official)
	redirect(w, r, "/govt-schemes")
}
