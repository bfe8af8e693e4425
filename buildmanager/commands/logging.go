package commands

import (
	"time"

	"github.com/disgoorg/disgo/handler"

	"github.com/bfgbuilds/buildmanager/buildmanager/logger"
)

// WrapWithLogging logs every invocation of a command handler with its
// outcome and duration.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		err := h(e)

		user := e.User()
		logger.LogCommand(name, user.ID.String(), user.Username, time.Since(start), err)
		return err
	}
}
