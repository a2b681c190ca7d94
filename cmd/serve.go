package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"golang-ethernetd/internal/adapter/agent"
	"golang-ethernetd/internal/adapter/api"
	"golang-ethernetd/internal/adapter/dependencies"
	infraDhcp "golang-ethernetd/internal/adapter/infrastructure/dhcp"
	"golang-ethernetd/internal/adapter/infrastructure/file"
	"golang-ethernetd/internal/adapter/infrastructure/network"
	"golang-ethernetd/internal/adapter/tracker"
	"golang-ethernetd/internal/ethernet"
	"golang-ethernetd/internal/pkg/config"
	"golang-ethernetd/internal/pkg/lock"
	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/pkg/looper"
	"golang-ethernetd/internal/pkg/metrics"
	"golang-ethernetd/internal/pkg/version"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const lockTimeout = 5 * time.Second

var (
	configFlag   string
	noDefaultReq bool
)

// defaultRequest keeps an ethernet interface with internet access wanted. It is
// filed before any interface is tracked; the factory counts it once one comes up.
var defaultRequest = types.NetworkRequest{
	Transports:   []types.Transport{types.TransportEthernet},
	Capabilities: []types.Capability{types.CapabilityInternet},
}

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Track ethernet interfaces, provision them and serve the admin API",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation error: %w", err)
		}

		logging.InitLogger(cfg.Logging)
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.GetLogger()
	info := version.GetGitInfo()
	metrics.SetBuildInfo(info.Tag, info.Commit)
	logger.WithFields(logrus.Fields{
		"config_file": configFlag,
		"version":     info.String(),
	}).Info("Starting daemon")

	instance := lock.New(cfg.LockFile)
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	err := instance.Acquire(lockCtx)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := instance.Release(); err != nil {
			logger.WithError(err).Warn("Failed to release lock file")
		}
	}()

	networkMgr := network.NewManagerAdapter()
	registry := agent.NewRegistry()
	deps := dependencies.New(infraDhcp.NewClientAdapter(), networkMgr, file.NewManagerAdapter(), registry, cfg.Provisioning)

	lp := looper.New()
	svc := ethernet.NewService(lp, deps)
	registry.SetRequestHandler(svc)
	if !noDefaultReq {
		registry.AddRequest(defaultRequest)
	}

	trk, err := tracker.New(networkMgr, svc, cfg)
	if err != nil {
		return err
	}
	apiServer := api.New(cfg.API.Listen, cfg.API.RequestTimeout, svc, registry)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lp.Run(gctx) })
	g.Go(func() error { return trk.Run(gctx) })
	g.Go(func() error { return apiServer.Run(gctx) })
	g.Go(func() error {
		current := cfg
		return config.Watch(gctx, configFlag, func(next *config.Config) {
			reload(current, next, svc, trk, deps)
			current = next
		})
	})

	err = g.Wait()
	logger.Info("Daemon stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// reload pushes a new configuration to the running components. Logging
// settings take effect on restart.
func reload(prev, next *config.Config, svc *ethernet.Service, trk *tracker.Tracker, deps *dependencies.Dependencies) {
	logger := logging.WithComponent("reload")

	deps.SetProvisioningConfig(next.Provisioning)
	if err := trk.SetConfig(next); err != nil {
		logger.WithError(err).Error("Tracker rejected configuration")
		return
	}

	for _, name := range config.ChangedInterfaces(prev, next) {
		ifaceCfg := next.Interfaces[name]
		log := logger.WithField("interface", name)
		log.Info("Interface configuration changed")
		svc.UpdateInterface(name, ifaceCfg.IPConfiguration(), ifaceCfg.NetworkCapabilities(),
			port.ListenerFunc(func(network *types.Network, err error) {
				switch {
				case errors.Is(err, ethernet.ErrNotConfigured):
					log.Debug("Interface not tracked, configuration applies when it appears")
				case err != nil:
					log.WithError(err).Warn("Interface update did not complete")
				default:
					log.WithField("network", network).Info("Interface update applied")
				}
			}))
	}
}

func init() {
	serveCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	serveCmd.Flags().BoolVar(&noDefaultReq, "no-default-request", false, "Do not file the default internet request")
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(serveCmd)
}
