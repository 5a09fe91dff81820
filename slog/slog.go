// Package slog decorates linkopp services with structured logging.
package slog

import (
	"log/slog"

	"github.com/fwojciec/linkopp"
)

// levelFor logs unexpected failures at error level and everything else,
// including client errors, at info level.
func levelFor(err error) slog.Level {
	if err != nil && linkopp.ErrorCode(err) == linkopp.EINTERNAL {
		return slog.LevelError
	}
	return slog.LevelInfo
}
