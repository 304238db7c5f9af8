package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/AlexZinkM/phantom-waitlist/internal/common"
	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/internal/session"
	"github.com/AlexZinkM/phantom-waitlist/internal/wallet"
	"github.com/AlexZinkM/phantom-waitlist/internal/whitelist"
	"github.com/AlexZinkM/phantom-waitlist/solana"

	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 16 << 10

// WaitlistHandler serves the waitlist page, the deep-link callback and the JSON API.
type WaitlistHandler struct {
	negotiator *wallet.Negotiator
	controller *whitelist.Controller
	sessions   *session.Manager
	publicURL  string
	appRef     string
}

// NewWaitlistHandler creates a WaitlistHandler.
func NewWaitlistHandler(n *wallet.Negotiator, c *whitelist.Controller, sessions *session.Manager, publicURL, appRef string) (*WaitlistHandler, error) {
	if n == nil || c == nil || sessions == nil {
		return nil, errors.New("negotiator, controller and session manager are required")
	}
	publicURL = strings.TrimRight(publicURL, "/")
	if appRef == "" {
		appRef = publicURL
	}
	return &WaitlistHandler{
		negotiator: n,
		controller: c,
		sessions:   sessions,
		publicURL:  publicURL,
		appRef:     appRef,
	}, nil
}

// Connect handles POST /api/connect
// @Summary      Connect wallet
// @Description  Reports the injected provider outcome, or starts a Phantom deep link on mobile
// @Tags         connect
// @Accept       json
// @Produce      json
// @Param        request  body      model.ConnectRequest  true  "Provider outcome"
// @Success      200      {object}  model.ConnectResponse
// @Failure      403      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /api/connect [post]
func (h *WaitlistHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ConnectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, s := h.sessions.FromRequest(w, r)
	env := wallet.Environment{
		Mobile:    common.IsMobileUserAgent(r.UserAgent()),
		SessionID: id,
		Silent:    req.Silent,
	}
	if req.HasProvider {
		env.Provider = wallet.ReportedProvider{PublicKey: req.PublicKey, Rejected: req.Rejected}
	}

	res, err := h.negotiator.Connect(r.Context(), env)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := model.ConnectResponse{
		Strategy:    res.Strategy.String(),
		State:       res.State.String(),
		RedirectURL: res.RedirectURL,
	}
	if res.State == wallet.FlowCompleted {
		s.SetWalletAddress(res.Address)
		hlog.FromRequest(r).Info().Str("wallet", res.Address).Str("strategy", resp.Strategy).Msg("wallet connected")
		view := sessionView(s.Snapshot())
		resp.Session = &view
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConnectQR handles POST /api/connect/qr
// @Summary      Start a deep link for another device
// @Description  Starts a Phantom connect deep link and returns it as a QR code to scan with a phone
// @Tags         connect
// @Produce      json
// @Success      200  {object}  model.QRConnectResponse
// @Router       /api/connect/qr [post]
func (h *WaitlistHandler) ConnectQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	id, _ := h.sessions.FromRequest(w, r)
	res, err := h.negotiator.StartDeepLink(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	qr, err := solana.GenerateQRCode(res.RedirectURL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.QRConnectResponse{
		FlowID: res.FlowID,
		URL:    res.RedirectURL,
		QR:     qr,
	})
}

// FlowStatus handles GET /api/connect/flows/{id}
// @Summary      Deep link status
// @Description  Reports a deep-link flow's state; a completed flow connects the session that started it
// @Tags         connect
// @Produce      json
// @Param        id   path      string  true  "Flow id"
// @Success      200  {object}  model.FlowResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/connect/flows/{id} [get]
func (h *WaitlistHandler) FlowStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	flow, err := h.negotiator.Flow(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, s := h.sessions.FromRequest(w, r)
	if flow.SessionID != id {
		// only the session that started a flow may see its result
		writeError(w, r, wallet.ErrFlowNotFound)
		return
	}
	if flow.State == wallet.FlowCompleted {
		s.SetWalletAddress(flow.Address)
	}

	writeJSON(w, http.StatusOK, model.FlowResponse{
		FlowID:        flow.ID,
		State:         flow.State.String(),
		WalletAddress: flow.Address,
	})
}

// Callback handles GET /callback, the Phantom redirect target.
// Every outcome redirects to the entry screen; failures leave a notice.
func (h *WaitlistHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	id, s := h.sessions.FromRequest(w, r)
	res, err := h.negotiator.HandleCallback(r.Context(), r.URL.Query())
	if err != nil {
		_, code, msg := describe(err)
		hlog.FromRequest(r).Warn().Err(err).Str("code", code).Msg("deep link callback failed")
		s.SetNotice(msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.SetWalletAddress(res.Address)
	if res.SessionID != "" && res.SessionID != id {
		if origin := h.sessions.Lookup(res.SessionID); origin != nil {
			origin.SetWalletAddress(res.Address)
		}
	}
	hlog.FromRequest(r).Info().Str("wallet", res.Address).Str("flow", res.FlowID).Msg("wallet connected")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Session handles GET /api/session
// @Summary      Current session
// @Description  Returns the screen to show and the form state; a pending notice is returned once
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionView
// @Router       /api/session [get]
func (h *WaitlistHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	_, s := h.sessions.FromRequest(w, r)
	view := sessionView(s.Snapshot())
	s.TakeNotice()
	writeJSON(w, http.StatusOK, view)
}

// ResetSession handles POST /api/session/reset
// @Summary      Start over
// @Description  Discards the session (wallet, form and status)
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionView
// @Router       /api/session/reset [post]
func (h *WaitlistHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	_, s := h.sessions.Reset(w, r)
	writeJSON(w, http.StatusOK, sessionView(s.Snapshot()))
}

// Join handles POST /api/whitelist
// @Summary      Join the waiting list
// @Description  Validates the form against the connected wallet and stores one whitelist record
// @Tags         whitelist
// @Accept       json
// @Produce      json
// @Param        request  body      model.WhitelistRequest  true  "Form fields"
// @Success      201      {object}  model.WhitelistResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /api/whitelist [post]
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.WhitelistRequest
	if !decodeBody(w, r, &req) {
		return
	}

	_, s := h.sessions.FromRequest(w, r)
	if st := s.Snapshot().Status; st == whitelist.StatusIdle || st == whitelist.StatusFailed {
		s.SetFields(whitelist.Fields{DisplayName: req.DisplayName, Handle: req.Handle})
	}

	rec, err := h.controller.Submit(r.Context(), s)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.WhitelistResponse{
		Record:  *rec,
		Session: sessionView(s.Snapshot()),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
