package handler

import (
	"net/http"

	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/waitlist"
)

// JoinResponse confirms waitlist membership
type JoinResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// HandleJoin registers the signed-in wallet on the waitlist
// @Summary Join the waitlist
// @Description Idempotent: joining again returns the existing record
// @Tags waitlist
// @Produce json
// @Success 200 {object} JoinResponse
// @Success 201 {object} JoinResponse
// @Failure 401 {object} ErrorResponse
// @Router /waitlist/join [post]
func HandleJoin(svc waitlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := SessionWallet(r, w)
		if !ok {
			return
		}

		user, created, err := svc.Join(r.Context(), wallet)
		if err != nil {
			respondServiceError(w, r, "Join waitlist", err)
			return
		}

		if created {
			respondJSON(w, http.StatusCreated, JoinResponse{Message: MsgJoinedWaitlist, User: user})
			return
		}
		respondJSON(w, http.StatusOK, JoinResponse{Message: MsgAlreadyOnList, User: user})
	}
}

// HandleStatus returns the wallet's queue standing
// @Summary Waitlist status
// @Description Returns the user record, priority score, and live queue position
// @Tags waitlist
// @Produce json
// @Success 200 {object} waitlist.StatusInfo
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /waitlist/status [get]
func HandleStatus(svc waitlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := SessionWallet(r, w)
		if !ok {
			return
		}

		info, err := svc.Status(r.Context(), wallet)
		if err != nil {
			respondServiceError(w, r, "Waitlist status", err)
			return
		}

		respondJSON(w, http.StatusOK, info)
	}
}
