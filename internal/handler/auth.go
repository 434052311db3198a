package handler

import (
	"net/http"
	"time"

	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/session"
	"github.com/msafer/waitlist/internal/waitlist"
)

// NonceRequest asks for a sign-in challenge for a wallet
type NonceRequest struct {
	Address string `json:"address" validate:"required,eth_addr"`
}

// NonceResponse carries the challenge the wallet must sign
type NonceResponse struct {
	Message   string    `json:"message"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleNonce issues a sign-in challenge
// @Summary Request a sign-in challenge
// @Description Issues a single-use challenge message for the wallet to sign. Re-requesting invalidates the previous challenge.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body NonceRequest true "Wallet address"
// @Success 200 {object} NonceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/nonce [post]
func HandleNonce(svc waitlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NonceRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sign-in challenge"); err != nil {
			return
		}

		msg, err := svc.StartSignIn(r.Context(), req.Address)
		if err != nil {
			respondServiceError(w, r, "Sign-in challenge", err)
			return
		}

		respondJSON(w, http.StatusOK, NonceResponse{
			Message:   msg.Build(),
			Nonce:     msg.Nonce,
			ExpiresAt: msg.ExpirationTime,
		})
	}
}

// SignInRequest carries the signed challenge back
type SignInRequest struct {
	Message   string `json:"message" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// SignInResponse confirms the authenticated wallet
type SignInResponse struct {
	Wallet string `json:"wallet"`
}

// HandleSignIn verifies a signed challenge and opens a session
// @Summary Complete wallet sign-in
// @Description Verifies the signature over the issued challenge and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Signed challenge"
// @Success 200 {object} SignInResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /auth/signin [post]
func HandleSignIn(svc waitlist.Service, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sign-in"); err != nil {
			return
		}

		wallet, err := svc.CompleteSignIn(r.Context(), req.Message, req.Signature)
		if err != nil {
			respondServiceError(w, r, "Sign-in", err)
			return
		}

		token, err := sessions.Issue(wallet)
		if err != nil {
			respondServiceError(w, r, "Sign-in", err)
			return
		}

		http.SetCookie(w, sessions.Cookie(token))
		respondJSON(w, http.StatusOK, SignInResponse{Wallet: wallet})
	}
}

// HandleLogout clears the session cookie
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /auth/logout [post]
func HandleLogout(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, sessions.ClearCookie())
		logger.FromContext(r.Context()).Debug("Session cleared")
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSignedOut})
	}
}
