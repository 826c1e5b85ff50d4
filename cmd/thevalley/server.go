package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/coder/quartz"

	"github.com/mmai/thevalley/cmd/thevalley/shared"
	"github.com/mmai/thevalley/internal/server"
)

// ServerCmd runs the WebSocket game server
type ServerCmd struct {
	Config    string `kong:"default='server.hcl',help='Path to HCL config file'"`
	Addr      string `kong:"help='Listen address, overrides config (host:port)'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
	SeatCount int    `kong:"help='Override default variant seat count'"`
	HandSize  int    `kong:"help='Override default variant hand size'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	if c.Addr != "" {
		host, port, err := splitAddr(c.Addr)
		if err != nil {
			return err
		}
		cfg.Server.Address = host
		cfg.Server.Port = port
	}
	if c.SeatCount > 0 || c.HandSize > 0 {
		i := defaultVariantIndex(cfg)
		if c.SeatCount > 0 {
			cfg.Variants[i].SeatCount = c.SeatCount
		}
		if c.HandSize > 0 {
			cfg.Variants[i].HandSize = c.HandSize
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLoggerWithLevel(cfg.Server.LogLevel, c.Debug)

	rooms := server.NewRoomManager(quartz.NewReal(), cfg.RoomIdleTimeout(), logger)
	srv := server.NewServer(cfg, rooms, logger)

	logger.Info("Starting valley server",
		"address", cfg.ListenAddress(),
		"variants", len(cfg.Variants),
		"room_idle", cfg.RoomIdleTimeout(),
	)

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	return srv.Run(ctx)
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return host, port, nil
}

func defaultVariantIndex(cfg *server.Config) int {
	for i, vc := range cfg.Variants {
		if vc.Default {
			return i
		}
	}
	return 0
}

