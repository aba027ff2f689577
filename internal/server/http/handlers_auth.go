package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/server/metrics"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/services"
)

const (
	msgRegistered      = "User registered successfully."
	msgRegisterFailed  = "Error registering user."
	msgRegisterInvalid = "Invalid registration details."
	msgUsernameTaken   = "Username already exists."
	msgFarmerIDTaken   = "Farmer ID already registered."
	msgLoggedIn        = "Login successful."
	msgBadCredentials  = "Invalid username or password."
	msgLoginFailed     = "Error logging in user."
	msgOfficialTaken   = "Employee ID or username already registered."
	msgOfficialFailed  = "Error registering official."
	msgOfficialInvalid = "Invalid official registration details."
	msgInternal        = "Internal server error."
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f := registerForm{
		Username: field(r, "username"),
		Password: r.PostFormValue("password"),
		ID:       field(r, "id"),
		Name:     field(r, "name"),
		DOB:      field(r, "dob"),
		Gender:   field(r, "gender"),
		Address:  field(r, "address"),
		District: field(r, "district"),
	}
	if err := s.validate.Struct(f); err != nil {
		metrics.Registrations.WithLabelValues("farmer", "invalid").Inc()
		writeText(w, http.StatusBadRequest, msgRegisterInvalid)
		return
	}

	in := services.RegisterInput{Username: f.Username, Password: f.Password}
	if f.ID != "" {
		id := parseID(f.ID)
		if id == 0 {
			metrics.Registrations.WithLabelValues("farmer", "invalid").Inc()
			writeText(w, http.StatusBadRequest, msgRegisterInvalid)
			return
		}
		in.Profile = &models.FarmerProfile{
			ID:       id,
			Name:     f.Name,
			DOB:      f.DOB,
			Gender:   f.Gender,
			Address:  f.Address,
			District: f.District,
		}
	}

	acc, err := s.auth.Register(ctx, in)
	switch {
	case errors.Is(err, common.ErrorFarmerIDTaken):
		metrics.Registrations.WithLabelValues("farmer", "conflict").Inc()
		writeText(w, http.StatusConflict, msgFarmerIDTaken)
		return
	case errors.Is(err, common.ErrorAlreadyExists):
		metrics.Registrations.WithLabelValues("farmer", "conflict").Inc()
		writeText(w, http.StatusConflict, msgUsernameTaken)
		return
	case errors.Is(err, common.ErrorValidation):
		metrics.Registrations.WithLabelValues("farmer", "invalid").Inc()
		writeText(w, http.StatusBadRequest, msgRegisterInvalid)
		return
	case err != nil:
		metrics.Registrations.WithLabelValues("farmer", "error").Inc()
		s.logger.Error(ctx, "error registering user", "username", f.Username, "error", err)
		writeText(w, http.StatusInternalServerError, msgRegisterFailed)
		return
	}
	metrics.Registrations.WithLabelValues("farmer", "ok").Inc()

	s.logger.Info(ctx, "user registered", "username", acc.Username)

	// the account is committed; without a session the user signs in via /login
	token, _, err := s.auth.StartSession(ctx, models.PrincipalFarmer, acc.Username)
	if err != nil {
		s.logger.Error(ctx, "error starting session after registration", "username", acc.Username, "error", err)
	} else {
		s.setSessionCookie(w, r, token)
	}

	writeText(w, http.StatusOK, msgRegistered)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f := credentialsForm{Username: field(r, "username"), Password: r.PostFormValue("password")}
	if err := s.validate.Struct(f); err != nil {
		metrics.AuthAttempts.WithLabelValues("local", "denied").Inc()
		writeText(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	acc, err := s.auth.Login(ctx, f.Username, f.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			metrics.AuthAttempts.WithLabelValues("local", "denied").Inc()
			writeText(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		metrics.AuthAttempts.WithLabelValues("local", "error").Inc()
		s.logger.Error(ctx, "error logging in user", "username", f.Username, "error", err)
		writeText(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	token, _, err := s.auth.StartSession(ctx, models.PrincipalFarmer, acc.Username)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("local", "error").Inc()
		s.logger.Error(ctx, "error starting session", "username", acc.Username, "error", err)
		writeText(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}
	s.setSessionCookie(w, r, token)

	metrics.AuthAttempts.WithLabelValues("local", "ok").Inc()
	writeText(w, http.StatusOK, msgLoggedIn)
}

func (s *Server) handleRegisterOfficial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f := officialForm{
		EmpID:      field(r, "emp_id"),
		Username:   field(r, "username"),
		Password:   r.PostFormValue("password"),
		DOB:        field(r, "dob"),
		JoinedDate: field(r, "joined_date"),
		Profession: field(r, "profession"),
		Gender:     field(r, "gender"),
	}
	if err := s.validate.Struct(f); err != nil {
		metrics.Registrations.WithLabelValues("official", "invalid").Inc()
		writeText(w, http.StatusBadRequest, msgOfficialInvalid)
		return
	}

	_, err := s.auth.RegisterOfficial(ctx, services.RegisterOfficialInput{
		EmpID:      f.EmpID,
		Username:   f.Username,
		Password:   f.Password,
		DOB:        f.DOB,
		JoinedDate: f.JoinedDate,
		Profession: f.Profession,
		Gender:     f.Gender,
	})
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		metrics.Registrations.WithLabelValues("official", "conflict").Inc()
		writeText(w, http.StatusConflict, msgOfficialTaken)
		return
	case errors.Is(err, common.ErrorValidation):
		metrics.Registrations.WithLabelValues("official", "invalid").Inc()
		writeText(w, http.StatusBadRequest, msgOfficialInvalid)
		return
	case err != nil:
		metrics.Registrations.WithLabelValues("official", "error").Inc()
		s.logger.Error(ctx, "error registering official", "emp_id", f.EmpID, "error", err)
		writeText(w, http.StatusInternalServerError, msgOfficialFailed)
		return
	}

	metrics.Registrations.WithLabelValues("official", "ok").Inc()
	s.logger.Info(ctx, "official registered", "emp_id", f.EmpID, "username", f.Username)
	redirect(w, r, "/welcome")
}

func (s *Server) handleLoginOfficial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f := credentialsForm{Username: field(r, "username"), Password: r.PostFormValue("password")}
	if err := s.validate.Struct(f); err != nil {
		metrics.AuthAttempts.WithLabelValues("official", "denied").Inc()
		writeText(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	o, err := s.auth.LoginOfficial(ctx, f.Username, f.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			metrics.AuthAttempts.WithLabelValues("official", "denied").Inc()
			writeText(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		metrics.AuthAttempts.WithLabelValues("official", "error").Inc()
		s.logger.Error(ctx, "error logging in official", "username", f.Username, "error", err)
		writeText(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	token, _, err := s.auth.StartSession(ctx, models.PrincipalOfficial, o.Username)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("official", "error").Inc()
		s.logger.Error(ctx, "error starting session", "username", o.Username, "error", err)
		writeText(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}
	s.setSessionCookie(w, r, token)

	metrics.AuthAttempts.WithLabelValues("official", "ok").Inc()
	redirect(w, r, "/govt-schemes")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		if err := s.auth.EndSession(r.Context(), c.Value); err != nil {
			s.logger.Error(r.Context(), "error ending session", "error", err)
			writeText(w, http.StatusInternalServerError, msgInternal)
			return
		}
	}
	clearSessionCookie(w, r)
	redirect(w, r, "/login")
}
