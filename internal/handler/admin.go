package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/msafer/waitlist/internal/audit"
	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/waitlist"
)

// ApproveRequest selects users to approve: explicit IDs, or the top count of
// the ranked queue when no IDs are given
type ApproveRequest struct {
	UserIDs []string `json:"user_ids"`
	Count   int      `json:"count" validate:"omitempty,min=1,max=1000"`
}

// HandleAdminApprove approves a batch of users
// @Summary Approve waitlisted users
// @Description Approves users by explicit ID, or the N highest-ranked when only a count is given. Per-user failures are reported without aborting the batch.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ApproveRequest true "User IDs or count"
// @Success 200 {object} waitlist.BatchResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security AdminKey
// @Router /admin/approve [post]
func HandleAdminApprove(svc waitlist.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ApproveRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Batch approve"); err != nil {
			return
		}

		result, err := svc.Approve(r.Context(), req.UserIDs, req.Count)
		if err != nil {
			respondServiceError(w, r, "Batch approve", err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// RejectRequest selects users to reject
type RejectRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=1000"`
}

// HandleAdminReject rejects a batch of users
// @Summary Reject waitlisted users
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RejectRequest true "User IDs"
// @Success 200 {object} waitlist.BatchResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security AdminKey
// @Router /admin/reject [post]
func HandleAdminReject(svc waitlist.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RejectRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Batch reject"); err != nil {
			return
		}

		result, err := svc.Reject(r.Context(), req.UserIDs)
		if err != nil {
			respondServiceError(w, r, "Batch reject", err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleAdminStats returns per-status user counts
// @Summary Waitlist statistics
// @Tags admin
// @Produce json
// @Success 200 {object} waitlist.Stats
// @Failure 401 {object} ErrorResponse
// @Security AdminKey
// @Router /admin/stats [get]
func HandleAdminStats(svc waitlist.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			respondServiceError(w, r, "Waitlist stats", err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// QueueResponse wraps the ranked queue
type QueueResponse struct {
	Queue []waitlist.RankedUser `json:"queue"`
}

// HandleAdminQueue returns the ranked waitlist
// @Summary Ranked waitlist queue
// @Tags admin
// @Produce json
// @Success 200 {object} QueueResponse
// @Failure 401 {object} ErrorResponse
// @Security AdminKey
// @Router /admin/queue [get]
func HandleAdminQueue(svc waitlist.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queue, err := svc.Queue(r.Context())
		if err != nil {
			respondServiceError(w, r, "Waitlist queue", err)
			return
		}
		respondJSON(w, http.StatusOK, QueueResponse{Queue: queue})
	}
}

// AuditHistoryResponse wraps a user's audit trail
type AuditHistoryResponse struct {
	Entries []domain.AuditEntry `json:"entries"`
}

// HandleAdminUserAudit returns the audit trail for one user
// @Summary User audit history
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {object} AuditHistoryResponse
// @Failure 401 {object} ErrorResponse
// @Security AdminKey
// @Router /admin/users/{id}/audit [get]
func HandleAdminUserAudit(svc audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		if userID == "" {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}

		limit, err := strconv.Atoi(GetOptionalQueryParam(r, "limit", "100"))
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}

		entries, err := svc.History(r.Context(), userID, limit)
		if err != nil {
			respondServiceError(w, r, "Audit history", err)
			return
		}

		respondJSON(w, http.StatusOK, AuditHistoryResponse{Entries: entries})
	}
}
