package config

import (
	"errors"
	"os"

	"github.com/tauraamui/framepipe/pkg/log"
	"github.com/tauraamui/xerror"
)

func destroy() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err := fs.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("No config file to remove at: %s", path)
			return nil
		}
		return xerror.Errorf("unable to remove config file: %s: %w", path, err)
	}
	log.Info("Removed config file: %s", path)
	return nil
}
