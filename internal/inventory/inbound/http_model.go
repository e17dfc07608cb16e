package inbound

import "time"

type SerialSearchRequest struct {
	OTP            string `json:"otp"`
	Window         int    `json:"window"`
	Type           string `json:"type,omitempty"`
	SerialContains string `json:"serial_contains,omitempty"`
	Assigned       string `json:"assigned,omitempty"`
}

type SerialSearchResponse struct {
	Outcome string `json:"outcome"`

	// Serial and Offset are present only when the outcome is "found".
	Serial string `json:"serial,omitempty"`
	Offset *int   `json:"offset,omitempty"`

	Collisions []string `json:"collisions,omitempty"`

	Candidates int `json:"candidates"`
	Skipped    int `json:"skipped"`
	Window     int `json:"window"`
}

type TokenResponse struct {
	Serial        string    `json:"serial"`
	Type          string    `json:"type"`
	Assigned      bool      `json:"assigned"`
	Active        bool      `json:"active"`
	Counter       int64     `json:"counter"`
	PeriodSeconds int64     `json:"period_seconds"`
	Digits        int       `json:"digits"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TokensResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r TokensResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type TokenDetailResponse struct {
	Token TokenResponse `json:"token"`
}

type StateAdvanceRequest struct {
	Counter int64 `json:"counter"`
}

type StateAdvanceResponse struct {
	Serial  string `json:"serial"`
	Counter int64  `json:"counter"`
}

func (StateAdvanceResponse) Message() string {
	return "Counter confirmed."
}

type TokenExportResponse struct {
	DownloadURL string `json:"download_url"`
	Count       int    `json:"count"`
}
