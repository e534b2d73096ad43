package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"healthwatch/internals/modules/address"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Failure reasons, for logs only. Every one of them maps to UNREACHABLE.
const (
	ReasonTimeout        = "TIMEOUT"
	ReasonDNS            = "DNS_FAILURE"
	ReasonNetwork        = "NETWORK_ERROR"
	ReasonTLS            = "TLS_FAILURE"
	ReasonInvalidRequest = "INVALID_REQUEST"
	ReasonUnknown        = "UNKNOWN_ERROR"
)

// drain at most this much of a body, for at most drainTimeout, so keep-alive
// can reuse the connection
const (
	maxDrain     = 64 << 10
	drainTimeout = 2 * time.Second
)

type Prober struct {
	client       *http.Client
	logger       *zerolog.Logger
	drainTimeout time.Duration
}

func NewProber(client *http.Client, logger *zerolog.Logger) *Prober {
	return &Prober{
		client:       client,
		logger:       logger,
		drainTimeout: drainTimeout,
	}
}

// Probe issues a single GET and classifies the outcome. It never fails:
// 2xx is UP, any other status is DOWN, no response at all is UNREACHABLE.
func (p *Prober) Probe(ctx context.Context, target string) address.HealthStatus {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		p.logFailure(target, ReasonInvalidRequest, err, start)
		return address.StatusUnreachable
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logFailure(target, classifyError(err), err, start)
		return address.StatusUnreachable
	}
	defer resp.Body.Close()

	// the verdict only needs the status line; a body trickling in slowly is cut off
	drainDeadline := time.AfterFunc(p.drainTimeout, cancel)
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	drainDeadline.Stop()

	status := address.StatusDown
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		status = address.StatusUp
	}

	p.logger.Debug().
		Str("address", target).
		Int("http_status", resp.StatusCode).
		Str("status", string(status)).
		Dur("latency", time.Since(start)).
		Msg("probe finished")

	return status
}

func (p *Prober) logFailure(target, reason string, err error, start time.Time) {
	p.logger.Debug().
		Err(err).
		Str("address", target).
		Str("reason", reason).
		Dur("latency", time.Since(start)).
		Msg("address unreachable")
}

func classifyError(err error) string {

	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReasonDNS
	}

	var (
		certErr      *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		authorityErr x509.UnknownAuthorityError
		hostErr      x509.HostnameError
	)
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostErr) {
		return ReasonTLS
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonNetwork
	}

	return ReasonUnknown
}
