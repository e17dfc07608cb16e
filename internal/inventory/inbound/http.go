package inbound

import (
	"context"

	"github.com/tokenops/serialfind/internal/inventory/usecase"
	"github.com/tokenops/serialfind/internal/pkg/router"
)

type uc interface {
	FindSerial(ctx context.Context, in usecase.FindSerialInput) (*usecase.FindSerialOutput, error)

	TokenList(ctx context.Context, in usecase.TokenListInput) (*usecase.TokenListOutput, error)
	TokenDetail(ctx context.Context, in usecase.TokenDetailInput) (*usecase.TokenDetailOutput, error)
	TokenExport(ctx context.Context, in usecase.TokenExportInput) (*usecase.TokenExportOutput, error)

	StateAdvance(ctx context.Context, in usecase.StateAdvanceInput) (*usecase.StateAdvanceOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Serial Search (need authenticated)
	r.POST("/api/v1/inventory/search/serial", end.SerialSearch)

	// Token Directory (need authenticated)
	r.GET("/api/v1/inventory/tokens", end.TokenList)
	r.GET("/api/v1/inventory/tokens/:serial", end.TokenDetail)
	r.GET("/api/v1/inventory/tokens-export", end.TokenExport)

	// State Confirmation (need authenticated)
	r.POST("/api/v1/inventory/tokens/:serial/counter", end.StateAdvance)
}
