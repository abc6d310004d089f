package handlers

import (
	"io"

	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/provisioning"
)

var (
	// loadEnvFile loads .env into the environment (for testing injection).
	loadEnvFile = config.LoadEnvFile

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.Load

	// newLogger opens the log stream (for testing injection).
	newLogger = provisioning.NewLogger
)

// session is the configuration and log stream shared by one command.
type session struct {
	cfg      *config.Config
	observer provisioning.Observer
	closer   io.Closer
}

// loadConfig loads .env and then the configuration, so that AWS_PROFILE and
// friends can live in the env file.
func loadConfig(configPath string) (*config.Config, error) {
	if err := loadEnvFile(""); err != nil {
		return nil, err
	}
	return loadConfigFile(configPath)
}

func openSession(configPath string) (*session, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, closer, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		observer: provisioning.NewLogObserver(logger),
		closer:   closer,
	}, nil
}

func (s *session) Close() {
	_ = s.closer.Close()
}
