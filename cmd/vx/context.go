package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"vx/internal/config"
	"vx/internal/container"
	"vx/internal/deps"
	"vx/internal/logging"
	"vx/internal/mkvtoolnix"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// toolchain bundles the MKVToolNix-backed collaborators a command needs.
type toolchain struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    *mkvtoolnix.Client
	inspector *container.Inspector
	gate      *deps.Gate
}

func (c *commandContext) toolchain() (*toolchain, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return newToolchain(cfg, logger, cfg.ToolTimeout()), nil
}

func newToolchain(cfg *config.Config, logger *slog.Logger, timeout time.Duration) *toolchain {
	client := mkvtoolnix.NewClient(logger,
		mkvtoolnix.WithBinaries(cfg.Tools.Mkvmerge, cfg.Tools.Mkvextract),
		mkvtoolnix.WithTimeout(timeout),
	)
	return &toolchain{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		inspector: container.NewInspector(client, logger),
		gate:      deps.NewGate(logger, deps.WithTimeout(timeout)),
	}
}

// withTimeout rebuilds the tool clients with a different per-call bound.
func (t *toolchain) withTimeout(timeout time.Duration) *toolchain {
	return newToolchain(t.cfg, t.logger, timeout)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
