package main

import (
	"log/slog"
	"strings"
	"sync"

	"phototag/internal/catalog"
	"phototag/internal/config"
	"phototag/internal/logging"
	"phototag/internal/tagger/ollama"
)

// commandContext lazily loads configuration shared by all subcommands.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger: console on stderr plus the log
// file under the configured log directory.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr", cfg.LogFile()},
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openCatalog(path string) (*catalog.Store, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return catalog.Open(expanded, logger)
}

func (c *commandContext) newGenerator() (*ollama.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return ollama.NewClient(ollama.Config{
		BaseURL:        cfg.Ollama.BaseURL,
		Model:          cfg.Ollama.Model,
		Language:       cfg.Tagging.Language,
		MaxTags:        cfg.Tagging.MaxTags,
		MaxTokens:      cfg.Ollama.MaxTokens,
		Temperature:    cfg.Ollama.Temperature,
		TimeoutSeconds: cfg.Ollama.TimeoutSeconds,
	}, logger, ollama.WithRetryMaxAttempts(cfg.Ollama.MaxRetries+1)), nil
}
