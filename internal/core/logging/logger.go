package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with a "cmp" field.
func Component(name string) zerolog.Logger {
	return ComponentOf(log.Logger, name)
}

// ComponentOf tags an explicit base logger, used where services receive
// their logger through construction rather than the global.
func ComponentOf(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("cmp", name).Logger()
}
