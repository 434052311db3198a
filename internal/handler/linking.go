package handler

import (
	"net/http"

	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/waitlist"
)

// LinkFarcasterRequest claims ownership of a Farcaster account
type LinkFarcasterRequest struct {
	FID int64 `json:"fid" validate:"required,gt=0"`
}

// LinkResponse reports the updated user after a successful link
type LinkResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// HandleLinkFarcaster links a Farcaster account for priority points
// @Summary Link a Farcaster account
// @Description Verifies the signed-in wallet appears among the FID's on-network address verifications
// @Tags linking
// @Accept json
// @Produce json
// @Param request body LinkFarcasterRequest true "Farcaster ID"
// @Success 200 {object} LinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /link/farcaster [post]
func HandleLinkFarcaster(svc waitlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := SessionWallet(r, w)
		if !ok {
			return
		}

		var req LinkFarcasterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Link farcaster"); err != nil {
			return
		}

		user, err := svc.LinkFarcaster(r.Context(), wallet, req.FID)
		if err != nil {
			respondServiceError(w, r, "Link farcaster", err)
			return
		}

		respondJSON(w, http.StatusOK, LinkResponse{Message: MsgFarcasterLinked, User: user})
	}
}

// LensStartRequest begins a Lens profile ownership proof
type LensStartRequest struct {
	ProfileID    string `json:"profile_id" validate:"required,max=100"`
	OwnerAddress string `json:"owner_address" validate:"required,eth_addr"`
}

// HandleLensStart issues a Lens ownership challenge
// @Summary Start a Lens profile link
// @Description Issues a challenge message to be signed by the profile owner's wallet
// @Tags linking
// @Accept json
// @Produce json
// @Param request body LensStartRequest true "Lens profile and owner"
// @Success 200 {object} waitlist.LensChallengeInfo
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /link/lens/start [post]
func HandleLensStart(svc waitlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := SessionWallet(r, w)
		if !ok {
			return
		}

		var req LensStartRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Start lens link"); err != nil {
			return
		}

		challenge, err := svc.StartLensLink(r.Context(), wallet, req.ProfileID, req.OwnerAddress)
		if err != nil {
			respondServiceError(w, r, "Start lens link", err)
			return
		}

		respondJSON(w, http.StatusOK, challenge)
	}
}

// LensVerifyRequest completes a Lens profile ownership proof
type LensVerifyRequest struct {
	Nonce     string `json:"nonce" validate:"required,hexadecimal"`
	Signature string `json:"signature" validate:"required"`
}

// HandleLensVerify redeems a Lens ownership challenge
// @Summary Verify a Lens profile link
// @Description Checks the owner's signature over the issued challenge and awards priority points
// @Tags linking
// @Accept json
// @Produce json
// @Param request body LensVerifyRequest true "Challenge nonce and signature"
// @Success 200 {object} LinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /link/lens/verify [post]
func HandleLensVerify(svc waitlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := SessionWallet(r, w)
		if !ok {
			return
		}

		var req LensVerifyRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Verify lens link"); err != nil {
			return
		}

		user, err := svc.VerifyLensLink(r.Context(), wallet, req.Nonce, req.Signature)
		if err != nil {
			respondServiceError(w, r, "Verify lens link", err)
			return
		}

		respondJSON(w, http.StatusOK, LinkResponse{Message: MsgLensVerified, User: user})
	}
}
