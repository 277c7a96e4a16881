package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"vila-timesheet/internal/services"
)

type rootResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

type authRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

type authResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EmployeeName string `json:"employee_name"`
}

type managerAuthRequest struct {
	Password string `json:"password"`
}

type managerAuthResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Token     *string `json:"token"`
	ExpiresAt string  `json:"expires_at,omitempty"`
}

type hoursResponse struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	HoursWorked   float64 `json:"hours_worked"`
	Date          string  `json:"date"`
	ColumnCreated bool    `json:"column_created"`
}

type tipRequest struct {
	Date      string          `json:"date"`
	TotalTips decimal.Decimal `json:"total_tips"`
}

type tipResponse struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	Date             string  `json:"date"`
	TotalTips        float64 `json:"total_tips"`
	FormulasInjected bool    `json:"formulas_injected"`
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Service: ServiceName,
		Version: Version,
		Status:  "running",
		Endpoints: map[string]string{
			"health":      "/health",
			"auth":        "/auth/verify",
			"manager":     "/manager/auth",
			"submit":      "/submit-hours",
			"daily_tips":  "/manager/submit-daily-tip",
			"period_info": "/periods/{date}",
		},
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := s.services.Timesheet.Health(r.Context())
	if status.Status != services.HealthConnected {
		writeDetail(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", status.Message)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) verifyEmployee(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.validator.ValidateCredentials(req.Name, req.PIN); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	entry, ok := s.services.Roster.Verify(r.Context(), req.Name, req.PIN)
	if !ok {
		s.logger.Info("employee verification failed", "request_id", RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusOK, authResponse{
			Success: false,
			Message: "Invalid credentials. Please check your name and PIN.",
		})
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Success:      true,
		Message:      "Authentication successful",
		EmployeeName: entry.Name,
	})
}

func (s *Server) managerAuth(w http.ResponseWriter, r *http.Request) {
	var req managerAuthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.validator.ValidateManagerPassword(req.Password); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	if !s.services.Manager.VerifyPassword(req.Password) {
		s.logger.Warn("failed manager authentication attempt", "request_id", RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusOK, managerAuthResponse{Success: false, Message: "Invalid password"})
		return
	}

	token, expires, err := s.tokens.IssueManager()
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.Info("manager authenticated", "request_id", RequestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, managerAuthResponse{
		Success:   true,
		Message:   "Authentication successful",
		Token:     &token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}

func (s *Server) submitHours(w http.ResponseWriter, r *http.Request) {
	var req services.ShiftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	result, err := s.services.Timesheet.SubmitShift(r.Context(), req)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hoursResponse{
		Success:       true,
		Message:       fmt.Sprintf("Hours submitted successfully to %s!", result.Sheet),
		HoursWorked:   result.Hours,
		Date:          result.Date,
		ColumnCreated: result.ColumnCreated,
	})
}

func (s *Server) submitDailyTip(w http.ResponseWriter, r *http.Request) {
	var req tipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	result, err := s.services.Timesheet.SubmitDailyTips(r.Context(), services.TipRequest{Date: req.Date, TotalTips: req.TotalTips})
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tipResponse{
		Success:          true,
		Message:          fmt.Sprintf("Daily tips submitted successfully. Formulas calculated for %d employees.", result.EmployeeCount),
		Date:             result.Date,
		TotalTips:        result.TotalTips.InexactFloat64(),
		FormulasInjected: true,
	})
}

func (s *Server) periodStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.services.Timesheet.PeriodStatus(r.PathValue("date"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
