package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/config"
	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/logger"
	"github.com/Additional-Code/gridlock/internal/messaging"
	"github.com/Additional-Code/gridlock/internal/metrics"
	"github.com/Additional-Code/gridlock/internal/observability"
	repositoryauction "github.com/Additional-Code/gridlock/internal/repository/auction"
	repositorybid "github.com/Additional-Code/gridlock/internal/repository/bid"
	repositoryuser "github.com/Additional-Code/gridlock/internal/repository/user"
	repositoryvehicle "github.com/Additional-Code/gridlock/internal/repository/vehicle"
	grpcserver "github.com/Additional-Code/gridlock/internal/server/grpc"
	httpserver "github.com/Additional-Code/gridlock/internal/server/http"
	serviceauction "github.com/Additional-Code/gridlock/internal/service/auction"
	servicebid "github.com/Additional-Code/gridlock/internal/service/bid"
	servicestats "github.com/Additional-Code/gridlock/internal/service/stats"
	serviceuser "github.com/Additional-Code/gridlock/internal/service/user"
	servicevehicle "github.com/Additional-Code/gridlock/internal/service/vehicle"
	transporthttp "github.com/Additional-Code/gridlock/internal/transport/http"
	"github.com/Additional-Code/gridlock/internal/validation"
	"github.com/Additional-Code/gridlock/internal/worker"
	workerauction "github.com/Additional-Code/gridlock/internal/worker/auction"
	workerbid "github.com/Additional-Code/gridlock/internal/worker/bid"
)

// Infra provides configuration, logging and connections without any domain
// wiring. Migrations and seeding run on top of it.
var Infra = fx.Options(
	config.Module,
	logger.Module,
	observability.Module,
	database.Module,
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	Infra,
	cache.Module,
	messaging.Module,
	metrics.Module,
	validation.Module,
	repositoryvehicle.Module,
	repositoryauction.Module,
	repositorybid.Module,
	repositoryuser.Module,
	servicevehicle.Module,
	serviceauction.Module,
	servicebid.Module,
	servicestats.Module,
	serviceuser.Module,
)

// HTTP wires the HTTP and gRPC servers and the auction sweeper on top of the
// core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
	workerauction.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerbid.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
