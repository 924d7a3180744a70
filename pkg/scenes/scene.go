package scenes

import (
	"github.com/gonewx/driftfield/pkg/game"
)

// Scene is a type alias for game.Scene so hosts can depend on this package alone.
type Scene = game.Scene

var (
	_ Scene         = (*SpaceScene)(nil)
	_ game.Saveable = (*SpaceScene)(nil)
	_ game.Closer   = (*SpaceScene)(nil)
)
