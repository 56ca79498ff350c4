// Command slimclient is a thin demo consumer of this module's public
// API: discover a server, connect, send periodic Stat heartbeats, and
// log every SC message received. It is not part of the core — per
// spec.md's "sample CLI argument parsing ... out of scope" framing —
// but gives the ambient logging/config/metrics stack a process to run
// in, grounded on the teacher's cmd/ convention of one thin main.go per
// service (cmd/ghostctl, cmd/miragectl) delegating to a run loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/slimproto-go/slimproto/clock"
	"github.com/slimproto-go/slimproto/config"
	"github.com/slimproto-go/slimproto/discovery"
	"github.com/slimproto-go/slimproto/internal/logging"
	"github.com/slimproto-go/slimproto/message"
	"github.com/slimproto-go/slimproto/session"
	"github.com/slimproto-go/slimproto/status"
)

const heartbeatInterval = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a client profile TOML file")
	flag.Parse()

	logger := logging.Logger()

	var profile config.Profile
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "slimclient: %v\n", err)
			os.Exit(1)
		}
		profile = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, profile, logger); err != nil {
		fmt.Fprintf(os.Stderr, "slimclient: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, profile config.Profile, logger zerolog.Logger) error {
	endpoint, err := resolveEndpoint(ctx, profile, logger)
	if err != nil {
		return fmt.Errorf("resolve endpoint: %w", err)
	}

	helo, err := buildHelo(profile)
	if err != nil {
		return fmt.Errorf("build helo: %w", err)
	}

	sess := session.New(session.NewNetDialer(), logger)
	if err := sess.Connect(ctx, endpoint, helo); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sess.Disconnect(0)
	logger.Info().Str("endpoint", endpoint.String()).Msg("slimclient connected")

	tracker := status.New(clock.NewSystem())

	recvErrs := make(chan error, 1)
	go receiveLoop(ctx, sess, logger, recvErrs)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-recvErrs:
			return fmt.Errorf("receive: %w", err)
		case <-ticker.C:
			stat := tracker.CreateStatusMessage(message.Timer)
			if err := sess.Send(ctx, stat); err != nil {
				return fmt.Errorf("send heartbeat: %w", err)
			}
		}
	}
}

func receiveLoop(ctx context.Context, sess *session.Session, logger zerolog.Logger, errs chan<- error) {
	for {
		msg, err := sess.Receive(ctx)
		if err != nil {
			errs <- err
			return
		}
		logger.Info().Str("type", fmt.Sprintf("%T", msg)).Msg("received server message")
	}
}

func resolveEndpoint(ctx context.Context, profile config.Profile, logger zerolog.Logger) (session.Endpoint, error) {
	if profile.ServerOverride != "" {
		return parseOverride(profile.ServerOverride)
	}

	timeout, err := profile.DiscoveryTimeoutDuration()
	if err != nil {
		return session.Endpoint{}, err
	}
	srv, err := discovery.Discover(ctx, timeout, logger)
	if err != nil {
		return session.Endpoint{}, err
	}
	if srv == nil {
		return session.Endpoint{}, fmt.Errorf("discovery found no server")
	}
	return srv.Endpoint, nil
}

func parseOverride(addr string) (session.Endpoint, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return session.Endpoint{}, err
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return session.Endpoint{}, fmt.Errorf("server_override host %q is not an IP literal", host)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return session.Endpoint{}, fmt.Errorf("server_override port %q invalid: %w", portStr, err)
	}
	return session.Endpoint{IP: ip, Port: port}, nil
}

func buildHelo(profile config.Profile) (message.Helo, error) {
	mac, err := profile.Identity.MACBytes()
	if err != nil {
		return message.Helo{}, err
	}
	uuidBytes, err := profile.Identity.UUIDBytes()
	if err != nil {
		return message.Helo{}, err
	}
	return message.Helo{
		DeviceID:     12, // squeezelite
		Revision:     0,
		MAC:          mac,
		UUID:         uuidBytes,
		Language:     profile.Identity.LanguageBytes(),
		Capabilities: profile.Identity.BuildCapabilities(),
	}, nil
}
