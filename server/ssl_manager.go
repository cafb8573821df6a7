package server

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/ctrlware/go-ctrl-boot/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

// SSLManager is the full ACME provider: it whitelists one domain, answers
// http-01 challenges on port 80 and prefetches the certificate so the first
// TLS handshake does not pay the issuance latency.
type SSLManager struct {
	certManager autocert.Manager
	domain      string
}

// NewSSLManager builds a manager for domain backed by cache. An empty domain
// falls back to the DOMAIN environment variable; having neither is fatal.
func NewSSLManager(domain string, cache autocert.Cache) *SSLManager {
	if domain == "" {
		domain = os.Getenv("DOMAIN")
	}
	if domain == "" {
		logger.Fatal("ssl domain is not set")
	}

	return &SSLManager{
		certManager: autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(domain),
			Cache:      cache,
		},

		domain: domain,
	}
}

func (s *SSLManager) Configure(srv *http.Server) error {
	if srv.TLSConfig == nil {
		srv.TLSConfig = &tls.Config{}
	}
	srv.TLSConfig.GetCertificate = s.certManager.GetCertificate
	return nil
}

// Run serves the ACME challenge listener until ctx is cancelled and kicks off
// the certificate prefetch in the background.
func (s *SSLManager) Run(ctx context.Context) error {
	go s.downloadCertificatesWithRetry(ctx)

	// Challenges must be answered on port 80.
	challengeSrv := &http.Server{Addr: ":http", Handler: s.certManager.HTTPHandler(nil)}
	errCh := make(chan error, 1)
	go func() { errCh <- challengeSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = challengeSrv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		logger.Error("Failed starting acme challenge listener", zap.Error(err))
		return err
	}
}

func (s *SSLManager) downloadCertificatesWithRetry(ctx context.Context) {
	getCertificate := func() error {
		cert, err := s.certManager.GetCertificate(&tls.ClientHelloInfo{ServerName: s.domain})
		if err != nil {
			return err
		}
		if cert == nil {
			return autocert.ErrCacheMiss
		}
		return nil
	}

	// Retry getting the certificate with exponential backoff
	retryCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	err := RetryWithExponentialBackoff(retryCtx, 10, 2*time.Second, getCertificate)
	if err != nil {
		logger.Error("Failed to obtain certificate", zap.Error(err))
	}
}
