// Package api - shared HTTP plumbing for the two upstream services: client
// construction, logger setup, and the backoff-gated reachability preflight.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestTimeout bounds every individual page fetch. A timeout surfaces as a
// fetch failure subject to the caller's pagination failure policy.
const RequestTimeout = 30 * time.Second

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger(debug bool) *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	if debug {
		prodConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, _ := prodConfig.Build()
	return logger
}

// NewHTTPClient returns the tuned client used for all upstream calls
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// WaitReachable probes baseURL with exponential backoff until it answers or
// the retry budget runs out. This is a connection preflight only; individual
// page fetches are never retried.
func WaitReachable(ctx context.Context, client *http.Client, baseURL string, logger *zap.Logger) error {
	const initialInterval = 2 * time.Second
	const maxInterval = 15 * time.Second
	const maxElapsed = 1 * time.Minute

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = maxElapsed

	err := backoff.RetryNotify(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()

		// Any HTTP answer proves the service is up. Auth and payload errors
		// belong to the page fetches that follow.
		return nil

	}, bo, func(err error, _ time.Duration) {
		logger.Sugar().Infof("Retrying connection to %s: %v", baseURL, err)
	})

	if err != nil {
		return fmt.Errorf("service unreachable at %s: %w", baseURL, err)
	}

	return nil
}
