/**
 * @description
 * This file contains the HTTP handlers for the pledge-service's API endpoints.
 * Handlers are responsible for parsing incoming requests, calling the appropriate
 * methods on the application service, and writing the HTTP response. They act as the
 * bridge between the web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/app"
	"github.com/issuepay/pledge-service/internal/domain"
	"github.com/issuepay/pledge-service/internal/store"
)

// PledgeHandlers holds the application service that handlers will use.
type PledgeHandlers struct {
	service              *app.Service
	limiter              *app.RedisRateLimiter
	webhookSecret        string
	webhookRatePerMinute int
}

// NewPledgeHandlers creates a new instance of PledgeHandlers.
func NewPledgeHandlers(service *app.Service, limiter *app.RedisRateLimiter, webhookSecret string, webhookRatePerMinute int) *PledgeHandlers {
	return &PledgeHandlers{
		service:              service,
		limiter:              limiter,
		webhookSecret:        webhookSecret,
		webhookRatePerMinute: webhookRatePerMinute,
	}
}

// createPledgeRequest carries the pledge payload plus the issue's repository and
// owning organization, which the frontend resolves before calling.
type createPledgeRequest struct {
	domain.CreatePledgePayload
	RepositoryID   uuid.UUID `json:"repository_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// CreatePledgeHandler handles requests to pledge against an issue.
func (h *PledgeHandlers) CreatePledgeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authUserUUID(w, r)
	if !ok {
		return
	}

	var req createPledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IssueID == uuid.Nil || req.OrganizationID == uuid.Nil {
		h.writeError(w, http.StatusBadRequest, "issue_id and organization_id are required")
		return
	}

	var byUserID *uuid.UUID
	if req.ByOrganizationID == nil {
		byUserID = &userID
	}
	result, err := h.service.CreatePledge(r.Context(), req.OrganizationID, req.RepositoryID, byUserID, req.CreatePledgePayload)
	if err != nil {
		log.Printf("level=error component=api msg=\"create pledge failed\" issue_id=%s err=%v", req.IssueID, err)
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// ListPledgesHandler lists pledges filtered by issue or organization.
func (h *PledgeHandlers) ListPledgesHandler(w http.ResponseWriter, r *http.Request) {
	opts := domain.PledgeListOptions{}
	if raw := r.URL.Query().Get("issue_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid issue_id")
			return
		}
		opts.IssueID = &id
	}
	if raw := r.URL.Query().Get("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid organization_id")
			return
		}
		opts.OrganizationID = &id
	}
	if opts.IssueID == nil && opts.OrganizationID == nil {
		h.writeError(w, http.StatusBadRequest, "issue_id or organization_id is required")
		return
	}
	opts.AllStates = r.URL.Query().Get("all_states") == "true"

	pledges, err := h.service.ListPledges(r.Context(), opts)
	if err != nil {
		log.Printf("level=error component=api msg=\"list pledges failed\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not list pledges")
		return
	}
	if pledges == nil {
		pledges = []domain.Pledge{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"pledges": pledges})
}

// GetPledgeHandler retrieves one pledge.
func (h *PledgeHandlers) GetPledgeHandler(w http.ResponseWriter, r *http.Request) {
	pledgeID, ok := h.pathUUID(w, r, "pledgeID")
	if !ok {
		return
	}
	pledge, err := h.service.GetPledge(r.Context(), pledgeID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pledge)
}

// PledgeSummaryHandler returns the sum of pledges an organization created in
// the calendar month containing the given instant.
func (h *PledgeHandlers) PledgeSummaryHandler(w http.ResponseWriter, r *http.Request) {
	rawOrg := r.URL.Query().Get("organization_id")
	orgID, err := uuid.Parse(rawOrg)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid organization_id")
		return
	}

	instant := time.Now().UTC()
	if raw := r.URL.Query().Get("at"); raw != "" {
		instant, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid at timestamp; use RFC3339")
			return
		}
	}

	var createdByUserID *uuid.UUID
	if r.URL.Query().Get("created_by_me") == "true" {
		userID, ok := h.authUserUUID(w, r)
		if !ok {
			return
		}
		createdByUserID = &userID
	}

	sum, err := h.service.SumPledgesPeriod(r.Context(), orgID, createdByUserID, instant)
	if err != nil {
		log.Printf("level=error component=api msg=\"pledge summary failed\" organization_id=%s err=%v", orgID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not compute pledge summary")
		return
	}
	start, end := app.MonthRange(instant)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sum":          sum,
		"period_start": start,
		"period_end":   end,
	})
}

// ConfirmIssueSolvedHandler records reward splits for a solved issue.
func (h *PledgeHandlers) ConfirmIssueSolvedHandler(w http.ResponseWriter, r *http.Request) {
	issueID, ok := h.pathUUID(w, r, "issueID")
	if !ok {
		return
	}
	var payload domain.ConfirmIssueSolvedPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rewards, err := h.service.ConfirmIssueSolved(r.Context(), issueID, payload)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"rewards": rewards})
}

// ListIssueRewardsHandler returns the reward split recorded for an issue.
func (h *PledgeHandlers) ListIssueRewardsHandler(w http.ResponseWriter, r *http.Request) {
	issueID, ok := h.pathUUID(w, r, "issueID")
	if !ok {
		return
	}
	rewards, err := h.service.ListRewardsByIssue(r.Context(), issueID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if rewards == nil {
		rewards = []domain.IssueReward{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"rewards": rewards})
}

// ListIssuePayoutsHandler returns every (pledge, reward) pair for an issue with
// its transfer record.
func (h *PledgeHandlers) ListIssuePayoutsHandler(w http.ResponseWriter, r *http.Request) {
	issueID, ok := h.pathUUID(w, r, "issueID")
	if !ok {
		return
	}
	payouts, err := h.service.ListRewardPayoutsByIssue(r.Context(), issueID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if payouts == nil {
		payouts = []domain.RewardPayout{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"payouts": payouts})
}

type disputeRequest struct {
	Reason string `json:"reason"`
}

// DisputePledgeHandler lets a pledger dispute their pledge while the window is open.
func (h *PledgeHandlers) DisputePledgeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authUserUUID(w, r)
	if !ok {
		return
	}
	pledgeID, ok := h.pathUUID(w, r, "pledgeID")
	if !ok {
		return
	}
	var req disputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		h.writeError(w, http.StatusBadRequest, "A dispute reason is required")
		return
	}

	if err := h.service.MarkDisputed(r.Context(), pledgeID, userID, req.Reason); err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "disputed"})
}

// TransferHandler pays one reward recipient their share of one pledge.
// Internal; invoked by operators and by the payout sweep's manual re-runs.
func (h *PledgeHandlers) TransferHandler(w http.ResponseWriter, r *http.Request) {
	pledgeID, ok := h.pathUUID(w, r, "pledgeID")
	if !ok {
		return
	}
	rewardID, ok := h.pathUUID(w, r, "rewardID")
	if !ok {
		return
	}

	tx, err := h.service.Transfer(r.Context(), pledgeID, rewardID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tx)
}

// RefundHandler returns the full pledge amount to the pledger. Internal.
func (h *PledgeHandlers) RefundHandler(w http.ResponseWriter, r *http.Request) {
	pledgeID, ok := h.pathUUID(w, r, "pledgeID")
	if !ok {
		return
	}
	if err := h.service.Refund(r.Context(), pledgeID); err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "refunded"})
}

// MarkPendingHandler moves an issue's confirmed pledges into the dispute window.
// Internal; normally driven by ConfirmIssueSolved but safe to re-run.
func (h *PledgeHandlers) MarkPendingHandler(w http.ResponseWriter, r *http.Request) {
	issueID, ok := h.pathUUID(w, r, "issueID")
	if !ok {
		return
	}
	if err := h.service.MarkPendingByIssue(r.Context(), issueID); err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type webhookEvent struct {
	Type       string `json:"type"`
	PaymentRef string `json:"payment_ref"`
	Amount     int64  `json:"amount"`
	RefundRef  string `json:"refund_ref"`
}

// PaymentWebhookHandler ingests processor notifications. Deliveries are
// idempotent end to end, so the processor may retry freely.
func (h *PledgeHandlers) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Webhook-Secret")
	if h.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.webhookSecret)) != 1 {
		h.writeError(w, http.StatusUnauthorized, "Invalid webhook secret")
		return
	}

	count, retryAfter, err := h.limiter.ConsumeRateLimit(r.Context(), "payment_webhook", "global", h.webhookRatePerMinute, time.Minute)
	if err != nil {
		log.Printf("level=warn component=api msg=\"webhook rate limiter unavailable; allowing request\" err=%v", err)
	} else if h.webhookRatePerMinute > 0 && count > h.webhookRatePerMinute {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		h.writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}
	if event.PaymentRef == "" {
		h.writeError(w, http.StatusBadRequest, "payment_ref is required")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = h.service.MarkCreatedByPaymentRef(r.Context(), event.PaymentRef, event.Amount)
	case "charge.refunded":
		err = h.service.MarkRefundedByPaymentRef(r.Context(), event.PaymentRef, event.RefundRef, event.Amount)
	case "charge.dispute.created":
		err = h.service.MarkChargeDisputedByPaymentRef(r.Context(), event.PaymentRef)
	default:
		// Unhandled event types are acknowledged so the processor stops retrying.
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// handleServiceError maps service and store errors onto HTTP status codes.
func (h *PledgeHandlers) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrPledgeNotFound),
		errors.Is(err, store.ErrRewardNotFound),
		errors.Is(err, store.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrRewardsAlreadyExist),
		errors.Is(err, store.ErrTransferAlreadyExists):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrNotPending),
		errors.Is(err, app.ErrInDisputeWindow),
		errors.Is(err, app.ErrDisputePeriodEnded),
		errors.Is(err, app.ErrIllegalTransition):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrNoPayoutAccount),
		errors.Is(err, app.ErrUnlinkedRecipient),
		errors.Is(err, app.ErrAmountMismatch),
		errors.Is(err, app.ErrNoSplits),
		errors.Is(err, app.ErrAmbiguousRecipient),
		errors.Is(err, app.ErrShareOutOfRange),
		errors.Is(err, app.ErrSharesExceedTotal),
		errors.Is(err, app.ErrDuplicateRecipient):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("level=error component=api msg=\"unhandled service error\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *PledgeHandlers) authUserUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := GetAuthUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *PledgeHandlers) pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", param))
		return uuid.Nil, false
	}
	return id, true
}

func (h *PledgeHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=error component=api msg=\"failed to encode response\" err=%v", err)
	}
}

func (h *PledgeHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
