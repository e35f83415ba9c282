package auction

import "go.uber.org/fx"

// Module provides the auction service to Fx.
var Module = fx.Provide(NewService)
