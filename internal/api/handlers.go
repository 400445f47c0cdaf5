package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"workshop/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidPayment), errors.Is(err, service.ErrCreatorNotFound):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEmployeeNotFound), errors.Is(err, service.ErrPaymentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// handleWebhook queues the update with the bot and answers Telegram immediately
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.logger.Warn("Error decoding webhook update", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid update")
		return
	}

	s.updates.HandleWebhookUpdate(update)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req service.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !s.authorizeCreator(w, r, req.CreatedBy) {
		return
	}

	payment, err := s.payments.CreatePayment(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Failed to create payment", zap.Error(err), zap.String("employee_id", req.EmployeeID))
			writeError(w, status, "Failed to create payment")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

// authorizeCreator binds created_by to the authenticated caller. The super-admin
// may record on behalf of anyone; other callers must be that active employee.
func (s *Server) authorizeCreator(w http.ResponseWriter, r *http.Request, createdBy string) bool {
	userID, ok := userIDFrom(r.Context())
	if !ok || s.employees.IsSuperAdmin(userID) {
		return true
	}

	self, err := s.employees.ByTelegramID(r.Context(), userID)
	if err != nil && !errors.Is(err, service.ErrEmployeeNotFound) {
		s.logger.Error("Failed to resolve payment creator", zap.Error(err), zap.Int64("user_id", userID))
		writeError(w, http.StatusInternalServerError, "Failed to create payment")
		return false
	}
	if err != nil || !self.IsActive || self.ID != createdBy {
		s.logger.Warn("Payment creator does not match caller",
			zap.Int64("user_id", userID),
			zap.String("created_by", createdBy),
		)
		writeError(w, http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	if userID, ok := userIDFrom(r.Context()); ok && !s.employees.IsSuperAdmin(userID) {
		self, err := s.employees.ByTelegramID(r.Context(), userID)
		if err != nil || self.ID != employeeID {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	totals, err := s.dashboard.Totals(r.Context(), employeeID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Failed to load dashboard", zap.Error(err), zap.String("employee_id", employeeID))
			writeError(w, status, "Failed to load dashboard")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// handleApprovePayment moves a pending payment to approved; super-admin only
func (s *Server) handleApprovePayment(w http.ResponseWriter, r *http.Request) {
	if userID, ok := userIDFrom(r.Context()); ok && !s.employees.IsSuperAdmin(userID) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	paymentID := chi.URLParam(r, "paymentID")
	payment, err := s.payments.ApprovePayment(r.Context(), paymentID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Failed to approve payment", zap.Error(err), zap.String("payment_id", paymentID))
			writeError(w, status, "Failed to approve payment")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, payment)
}
