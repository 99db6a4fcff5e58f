package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"waypoint/internal/domain"
	"waypoint/internal/logging"
	"waypoint/pkg/router"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	routes     []string
	basePath   string
	start      string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "waypoint",
		Short: "Match and build URLs for a table of named routes",
		Long: `Waypoint matches URLs against a table of named path templates.

Templates are made of "/"-separated segments:
  users          literal
  :id            required param
  :tab?          optional param
  *rest          catch-all, last segment only

Routes come from a JSON config file and/or --route flags.

Examples:
  waypoint routes --route user=users/:id --route docs=docs/*rest
  waypoint match /users/42?tab=posts --config routes.json
  waypoint url user id=42 tab=posts --config routes.json
  waypoint serve --config routes.json --port 3001`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON router config")
	flags.StringArrayVarP(&opts.routes, "route", "r", nil, "Route as name=template (repeatable)")
	flags.StringVar(&opts.basePath, "base-path", "", "Prefix for every route template")
	flags.StringVar(&opts.start, "start", "", "Initial location of the session history")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		routesCmd(opts),
		matchCmd(opts),
		urlCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file, if any, and applies the flag overrides.
func (o *globalOptions) loadConfig() (domain.RouterConfig, error) {
	config := domain.NewRouterConfig("")

	if o.configPath != "" {
		f, err := os.Open(o.configPath)
		if err != nil {
			return domain.RouterConfig{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		if config, err = domain.LoadConfig(f); err != nil {
			return domain.RouterConfig{}, err
		}
	}
	if config.Routes == nil {
		config.Routes = make(map[string]string)
	}

	for _, route := range o.routes {
		name, template, ok := strings.Cut(route, "=")
		if !ok || name == "" {
			return domain.RouterConfig{}, fmt.Errorf("invalid route %q: want name=template", route)
		}
		config.Routes[name] = template
	}
	if o.basePath != "" {
		config.BasePath = o.basePath
	}
	if o.start != "" {
		config.Start = o.start
	}

	if err := config.Validate(); err != nil {
		return domain.RouterConfig{}, err
	}
	return config, nil
}

func (o *globalOptions) logger(name string) (*logging.Logger, error) {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(name)
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	return logger, nil
}

// newRouter builds a router over an in-memory history for one-shot commands.
func (o *globalOptions) newRouter() (*router.Router, error) {
	config, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := o.logger(config.Name)
	if err != nil {
		return nil, err
	}

	return router.New(config.Routes,
		router.WithBasePath(config.BasePath),
		router.WithHistory(router.NewMemoryHistory(config.Start)),
		router.WithLogger(logger),
	)
}
