package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given). Variables already set in the environment win. Missing files are
// ignored so production can rely on the real environment alone.
func LoadDotEnv(logger *slog.Logger, paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		err := godotenv.Load(path)
		switch {
		case err == nil:
			logger.Debug("loaded environment file", slog.String("path", path))
		case errors.Is(err, fs.ErrNotExist):
		default:
			logger.Warn("failed to load environment file",
				slog.String("path", path),
				slog.Any("error", err))
		}
	}
}
