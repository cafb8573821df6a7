package server

import (
	"context"
	"crypto/tls"
	"net/http"

	"golang.org/x/crypto/acme/autocert"
)

type SSLProvider interface {
	// Configure mutates srv.TLSConfig so that http.Server can serve TLS.
	Configure(srv *http.Server) error

	// Run launches any background logic the provider needs
	// (ACME challenge listener, certificate refresh, etc.).
	// It must return when ctx is cancelled.
	Run(ctx context.Context) error
}

// Choose one of the following implementations of SSLProvider

// DirCache issues Let's Encrypt certificates and caches them in dir.
func DirCache(dir string) SSLProvider {
	return &dirCache{dir: dir}
}

type dirCache struct{ dir string }

func (d *dirCache) Configure(srv *http.Server) error {
	m := autocert.Manager{
		Prompt: autocert.AcceptTOS,
		Cache:  autocert.DirCache(d.dir),
	}
	if srv.TLSConfig == nil {
		srv.TLSConfig = &tls.Config{}
	}
	srv.TLSConfig.GetCertificate = m.GetCertificate
	return nil
}
func (d *dirCache) Run(ctx context.Context) error { <-ctx.Done(); return nil }

// StaticCert serves a pre-issued certificate from files, no ACME involved.
func StaticCert(certFile, keyFile string) SSLProvider {
	return &staticCert{certFile: certFile, keyFile: keyFile}
}

type staticCert struct{ certFile, keyFile string }

func (s *staticCert) Configure(srv *http.Server) error {
	cert, err := tls.LoadX509KeyPair(s.certFile, s.keyFile)
	if err != nil {
		return err
	}
	if srv.TLSConfig == nil {
		srv.TLSConfig = &tls.Config{}
	}
	srv.TLSConfig.Certificates = append(srv.TLSConfig.Certificates, cert)
	return nil
}
func (s *staticCert) Run(ctx context.Context) error { <-ctx.Done(); return nil }
