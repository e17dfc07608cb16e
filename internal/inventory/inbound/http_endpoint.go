package inbound

import (
	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/inventory/usecase"
	"github.com/tokenops/serialfind/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for token inventory workflows.
type HTTPEndpoint struct {
	uc uc
}

func toTokenResponse(tok entity.Token) TokenResponse {
	return TokenResponse{
		Serial:        tok.Serial,
		Type:          tok.Type.String(),
		Assigned:      tok.Assigned,
		Active:        tok.Active,
		Counter:       tok.Counter,
		PeriodSeconds: tok.PeriodSeconds,
		Digits:        tok.Digits,
		Description:   tok.Description,
		CreatedAt:     tok.CreatedAt,
		UpdatedAt:     tok.UpdatedAt,
	}
}

// SerialSearch resolves an observed OTP to the serial that produced it.
// @Summary Search serial by observed code
// @Description Scans enrolled tokens within a bounded forward window and reports found, not_found, ambiguous or incomplete.
// @Tags Inventory, Serial Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SerialSearchRequest true "Serial search payload"
// @Success 200 {object} router.successResponse{data=SerialSearchResponse} "Search outcome"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/inventory/search/serial [post]
func (h *HTTPEndpoint) SerialSearch(r *router.Request) (any, error) {
	var req SerialSearchRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.FindSerial(r.Context(), usecase.FindSerialInput{
		OTP:            req.OTP,
		Window:         req.Window,
		Type:           entity.TokenTypeFromString(req.Type),
		SerialContains: req.SerialContains,
		Assigned:       entity.AssignStateFromString(req.Assigned),
	})
	if err != nil {
		return nil, err
	}

	out := SerialSearchResponse{
		Outcome:    resp.Result.Outcome.String(),
		Collisions: resp.Result.Collisions,
		Candidates: resp.Result.Candidates,
		Skipped:    resp.Result.Skipped,
		Window:     req.Window,
	}
	if resp.Result.Outcome == entity.MatchOutcomeFound {
		out.Serial = resp.Result.Serial
		offset := resp.Result.Offset
		out.Offset = &offset
	}

	return out, nil
}

// TokenList returns a page of enrolled tokens with optional filters.
// @Summary List tokens
// @Description Returns a paginated token inventory with optional type, serial substring and assignment filters.
// @Tags Inventory, Token Directory
// @Security BearerAuth
// @Produce json
// @Param type query string false "Filter by token type (hotp|totp)"
// @Param serial_contains query string false "Filter by serial substring"
// @Param assigned query string false "Filter by assignment (assigned|unassigned)"
// @Param size query int false "Pagination size"
// @Param page query int false "Pagination page"
// @Success 200 {object} router.successResponse{data=TokensResponse} "Token list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/inventory/tokens [get]
func (h *HTTPEndpoint) TokenList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.TokenList(r.Context(), usecase.TokenListInput{
		Type:           r.GetQuery("type"),
		SerialContains: r.GetQuery("serial_contains"),
		Assigned:       r.GetQuery("assigned"),
		Size:           size,
		Page:           page,
	})
	if err != nil {
		return nil, err
	}

	tokens := make([]TokenResponse, 0, len(resp.Tokens))
	for _, item := range resp.Tokens {
		tokens = append(tokens, toTokenResponse(item))
	}

	return TokensResponse{
		total:  resp.Total,
		size:   resp.Size,
		page:   resp.Page,
		Tokens: tokens,
	}, nil
}

// @Summary Get token detail
// @Description Returns the public fields of a token by serial.
// @Tags Inventory, Token Directory
// @Security BearerAuth
// @Produce json
// @Param serial path string true "Token serial"
// @Success 200 {object} router.successResponse{data=TokenDetailResponse} "Token detail"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Token not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/inventory/tokens/{serial} [get]
func (h *HTTPEndpoint) TokenDetail(r *router.Request) (any, error) {
	resp, err := h.uc.TokenDetail(r.Context(), usecase.TokenDetailInput{
		Serial: r.GetParam("serial"),
	})
	if err != nil {
		return nil, err
	}

	return TokenDetailResponse{Token: toTokenResponse(resp.Token)}, nil
}

// StateAdvance confirms a post-match counter for a counter-based token.
// @Summary Confirm token counter
// @Description Moves a token's counter forward after an operator confirms a found search result.
// @Tags Inventory, State Confirmation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param serial path string true "Token serial"
// @Param request body StateAdvanceRequest true "Counter confirmation payload"
// @Success 200 {object} router.successResponse{data=StateAdvanceResponse} "Confirmation result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Token not found"
// @Failure 409 {object} router.errorResponse "Counter did not move forward"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/inventory/tokens/{serial}/counter [post]
func (h *HTTPEndpoint) StateAdvance(r *router.Request) (any, error) {
	var req StateAdvanceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.StateAdvance(r.Context(), usecase.StateAdvanceInput{
		Serial:  r.GetParam("serial"),
		Counter: req.Counter,
	})
	if err != nil {
		return nil, err
	}

	return StateAdvanceResponse{
		Serial:  resp.Serial,
		Counter: resp.Counter,
	}, nil
}

// @Summary Export tokens
// @Description Writes the filtered inventory as CSV to object storage and returns a presigned download link.
// @Tags Inventory, Token Directory
// @Security BearerAuth
// @Produce json
// @Param type query string false "Filter by token type (hotp|totp)"
// @Param serial_contains query string false "Filter by serial substring"
// @Param assigned query string false "Filter by assignment (assigned|unassigned)"
// @Success 200 {object} router.successResponse{data=TokenExportResponse} "Export result"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/inventory/tokens-export [get]
func (h *HTTPEndpoint) TokenExport(r *router.Request) (any, error) {
	resp, err := h.uc.TokenExport(r.Context(), usecase.TokenExportInput{
		Type:           r.GetQuery("type"),
		SerialContains: r.GetQuery("serial_contains"),
		Assigned:       r.GetQuery("assigned"),
	})
	if err != nil {
		return nil, err
	}

	return TokenExportResponse{
		DownloadURL: resp.DownloadURL,
		Count:       resp.Count,
	}, nil
}
