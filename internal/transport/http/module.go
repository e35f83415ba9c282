package http

import (
	"go.uber.org/fx"

	auctiontransport "github.com/Additional-Code/gridlock/internal/transport/http/auction"
	bidtransport "github.com/Additional-Code/gridlock/internal/transport/http/bid"
	healthtransport "github.com/Additional-Code/gridlock/internal/transport/http/health"
	statstransport "github.com/Additional-Code/gridlock/internal/transport/http/stats"
	usertransport "github.com/Additional-Code/gridlock/internal/transport/http/user"
	vehicletransport "github.com/Additional-Code/gridlock/internal/transport/http/vehicle"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	healthtransport.Module,
	vehicletransport.Module,
	auctiontransport.Module,
	bidtransport.Module,
	statstransport.Module,
	usertransport.Module,
)
