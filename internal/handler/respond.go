package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/phantom-waitlist/internal/common"
	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/internal/wallet"
	"github.com/AlexZinkM/phantom-waitlist/internal/whitelist"

	"github.com/rs/zerolog/hlog"
)

// Error codes returned in model.ErrorResponse.
const (
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeUserRejectedConnect = "USER_REJECTED_CONNECT"
	CodeCallbackMalformed   = "CALLBACK_MALFORMED"
	CodeDecryptionFailed    = "DECRYPTION_FAILED"
	CodeFlowNotFound        = "FLOW_NOT_FOUND"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeHandleAlreadyTaken  = "HANDLE_ALREADY_TAKEN"
	CodeNotEligible         = "NOT_ELIGIBLE"
	CodeSubmitInFlight      = "SUBMIT_IN_FLIGHT"
	CodeAlreadySubmitted    = "ALREADY_SUBMITTED"
	CodePersistenceFailed   = "PERSISTENCE_FAILED"
	CodeBadRequest          = "BAD_REQUEST"
	CodeInternal            = "INTERNAL"
)

// describe maps an error to its HTTP status, code and user-facing message.
func describe(err error) (int, string, string) {
	var verr *whitelist.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, CodeValidationFailed, verr.Message
	case errors.Is(err, wallet.ErrProviderUnavailable):
		return http.StatusUnprocessableEntity, CodeProviderUnavailable,
			"Phantom wallet not found. Install the Phantom extension, or open this page on your phone."
	case errors.Is(err, wallet.ErrUserRejectedConnect):
		return http.StatusForbidden, CodeUserRejectedConnect, "Failed to connect to Phantom."
	case errors.Is(err, wallet.ErrCallbackMalformed):
		return http.StatusBadRequest, CodeCallbackMalformed, "Phantom did not return the expected data. Please try again."
	case errors.Is(err, wallet.ErrDecryptionFailed):
		return http.StatusBadRequest, CodeDecryptionFailed, "Could not read the response from Phantom. Please try again."
	case errors.Is(err, wallet.ErrFlowNotFound):
		return http.StatusNotFound, CodeFlowNotFound, "Your connection attempt expired. Please connect again."
	case errors.Is(err, whitelist.ErrHandleAlreadyTaken):
		return http.StatusConflict, CodeHandleAlreadyTaken, "This X username is already on the waiting list."
	case errors.Is(err, whitelist.ErrNotEligible):
		return http.StatusForbidden, CodeNotEligible, err.Error()
	case errors.Is(err, whitelist.ErrSubmitInFlight):
		return http.StatusConflict, CodeSubmitInFlight, "Your submission is already in progress."
	case errors.Is(err, whitelist.ErrAlreadySubmitted):
		return http.StatusConflict, CodeAlreadySubmitted, "You're already on the waiting list."
	case errors.Is(err, whitelist.ErrPersistenceFailed):
		return http.StatusBadGateway, CodePersistenceFailed, "Submission failed."
	default:
		return http.StatusInternalServerError, CodeInternal, "Something went wrong. Please try again."
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := describe(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("code", code).Msg("request failed")
	}
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: msg, Code: CodeBadRequest})
}

func sessionView(snap whitelist.Snapshot) model.SessionView {
	return model.SessionView{
		Screen:          string(snap.Screen()),
		WalletAddress:   snap.WalletAddress,
		ShortAddress:    common.FormatWalletAddress(snap.WalletAddress),
		Status:          snap.Status.String(),
		FailureReason:   snap.FailureReason,
		ValidationError: snap.ValidationError,
		DisplayName:     snap.Fields.DisplayName,
		Handle:          snap.Fields.Handle,
		Notice:          snap.Notice,
	}
}
