package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"tipjar/internal/core"
	"tipjar/internal/http/handler/middleware"
	"tipjar/internal/http/payload"

	"go.uber.org/zap"
)

var (
	RequestNonce = "POST /api/auth/nonce"
	VerifyWallet = "POST /api/auth/verify"
	SubmitTip    = "POST /api/tips/submit"
	ListTips     = "GET /api/tips/list"
	TipStatus    = "GET /api/tips/{id}"
)

type WalletHandler struct {
	logs             *zap.SugaredLogger
	requestValidator RequestValidator
	tipjar           TipJarService
}

func NewWalletHandler(logger *zap.SugaredLogger, requestValidator RequestValidator, tipJarService TipJarService) *WalletHandler {
	return &WalletHandler{
		logs:             logger,
		requestValidator: requestValidator,
		tipjar:           tipJarService,
	}
}

func (h *WalletHandler) HandleNonce(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var req payload.NonceRequest
	if err := h.requestValidator.DecodeJSONPayload(r, &req); err != nil {
		h.respond(w, Response{
			Message: "Could not issue nonce",
			Error:   fmt.Errorf("invalid request payload: %w", err).Error(),
		}, http.StatusBadRequest,
			requestId)
		h.logs.Errorw("failed to decode and validate request payload",
			"error", err,
			"handler", RequestNonce,
			"request_id", requestId)
		return
	}

	challenge, err := h.tipjar.IssueNonce(r.Context(), req.WalletAddress, req.WalletType)
	if err != nil {
		resp := Response{Message: "Could not issue nonce"}
		httpCode := http.StatusInternalServerError
		if errors.Is(err, core.ErrUnsupportedChain) {
			httpCode = http.StatusBadRequest
			resp.Error = err.Error()
		} else {
			resp.Error = "unexpected error occurred"
		}

		h.respond(w, resp, httpCode, requestId)
		h.logs.Errorw("failed to issue nonce",
			"error", err,
			"handler", RequestNonce,
			"request_id", requestId)
		return
	}

	h.respond(w, NonceResponse{
		Nonce:   challenge.Nonce,
		Message: challenge.Message,
	}, http.StatusOK, requestId)
}

func (h *WalletHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var req payload.VerifyRequest
	if err := h.requestValidator.DecodeJSONPayload(r, &req); err != nil {
		h.respond(w, Response{
			Message: "Could not verify signature",
			Error:   fmt.Errorf("invalid request payload: %w", err).Error(),
		}, http.StatusBadRequest,
			requestId)
		h.logs.Errorw("failed to decode and validate request payload",
			"error", err,
			"handler", VerifyWallet,
			"request_id", requestId)
		return
	}

	result, err := h.tipjar.VerifyLogin(r.Context(), req.ToLoginMessage())
	if err != nil {
		resp := Response{Message: "Login failed"}
		httpCode := http.StatusInternalServerError
		if errors.Is(err, core.ErrUnsupportedChain) {
			httpCode = http.StatusBadRequest
			resp.Error = err.Error()
		} else {
			resp.Error = "unexpected error occurred"
		}

		h.respond(w, resp, httpCode, requestId)
		h.logs.Errorw("wallet verification failed",
			"error", err,
			"handler", VerifyWallet,
			"request_id", requestId)
		return
	}

	resp := VerifyResponse{
		Success: result.Success,
		Message: result.Message,
	}
	if result.Success {
		resp.SessionToken = &result.SessionToken
	}

	h.respond(w, resp, http.StatusOK, requestId)
}

func (h *WalletHandler) HandleSubmitTip(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var req payload.TipRequest
	if err := h.requestValidator.DecodeJSONPayload(r, &req); err != nil {
		h.respond(w, Response{
			Message: "Could not submit tip",
			Error:   fmt.Errorf("invalid request payload: %w", err).Error(),
		}, http.StatusBadRequest,
			requestId)
		h.logs.Errorw("failed to decode and validate request payload",
			"error", err,
			"handler", SubmitTip,
			"request_id", requestId)
		return
	}

	tipID, err := h.tipjar.SubmitTip(r.Context(), req.ToSubmission())
	if err != nil {
		// an unknown chain is a business outcome here, not an http error
		if errors.Is(err, core.ErrUnsupportedChain) {
			h.respond(w, TipSubmitResponse{
				Success: false,
				Message: "Unsupported chain",
			}, http.StatusOK, requestId)
			return
		}

		h.respond(w, Response{
			Message: "Could not submit tip",
			Error:   "unexpected error occurred",
		}, http.StatusInternalServerError,
			requestId)
		h.logs.Errorw("failed to submit tip",
			"error", err,
			"handler", SubmitTip,
			"request_id", requestId)
		return
	}

	h.respond(w, TipSubmitResponse{
		Success: true,
		Message: "Tip submitted, verification in progress",
		TipID:   &tipID,
	}, http.StatusOK, requestId)
}

func (h *WalletHandler) HandleListTips(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var postID *int64
	if raw := r.URL.Query().Get("post_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respond(w, Response{
				Message: "Could not list tips",
				Error:   fmt.Errorf("parse post_id: %w", err).Error(),
			}, http.StatusBadRequest,
				requestId)
			h.logs.Errorw("invalid post_id parameter",
				"error", err,
				"handler", ListTips,
				"request_id", requestId)
			return
		}
		postID = &parsed
	}

	tips, err := h.tipjar.VerifiedTips(r.Context(), postID)
	if err != nil {
		h.respond(w, Response{
			Message: "Could not list tips",
			Error:   "unexpected error occurred",
		}, http.StatusInternalServerError,
			requestId)
		h.logs.Errorw("failed to list tips",
			"error", err,
			"handler", ListTips,
			"request_id", requestId)
		return
	}

	resp := map[string][]core.TipRecord{
		"tips": tips,
	}

	h.respond(w, resp, http.StatusOK, requestId)
}

// HandleTipStatus serves single-tip lookups so clients can poll for the
// verified flag flipping after submission.
func (h *WalletHandler) HandleTipStatus(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	tipID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respond(w, Response{
			Message: "Could not get tip",
			Error:   fmt.Errorf("parse tip id: %w", err).Error(),
		}, http.StatusBadRequest,
			requestId)
		h.logs.Errorw("invalid tip id parameter",
			"error", err,
			"handler", TipStatus,
			"request_id", requestId)
		return
	}

	tip, err := h.tipjar.TipByID(r.Context(), tipID)
	if err != nil {
		if errors.Is(err, core.ErrTipNotFound) {
			h.respond(w, Response{
				Message: "Tip not found",
			}, http.StatusNotFound, requestId)
			return
		}

		h.respond(w, Response{
			Message: "Could not get tip",
			Error:   "unexpected error occurred",
		}, http.StatusInternalServerError,
			requestId)
		h.logs.Errorw("failed to get tip",
			"error", err,
			"handler", TipStatus,
			"request_id", requestId)
		return
	}

	h.respond(w, tip, http.StatusOK, requestId)
}

func requestID(r *http.Request) string {
	reqIdCtx := r.Context().Value(middleware.RequestIDKey)
	if reqIdCtx == nil {
		return ""
	}
	return reqIdCtx.(string)
}

func (h *WalletHandler) respond(w http.ResponseWriter, resp any, code int, requestId string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, oopsErr, http.StatusInternalServerError)
		h.logs.Errorw("failed to encode response",
			"error", err,
			"request_id", requestId)
	}
}
