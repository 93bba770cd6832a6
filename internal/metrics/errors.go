package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"syscall"
)

// Failure cause labels carried by Sample.Cause.
const (
	CauseCanceled = "Canceled"
	CauseTimeout  = "Timeout"
	CauseRefused  = "Connection refused"
	CauseReset    = "Connection reset"
	CauseClosed   = "Connection closed"
	CauseDNS      = "DNS lookup failed"
	CauseTLS      = "TLS error"
	CauseNetwork  = "Network error"
	CauseOther    = "Request error"
)

// ErrorCause classifies a transport error into a short label used as the
// Cause of failed samples.
func ErrorCause(err error) string {
	if err == nil {
		return ""
	}

	var (
		dnsErr  *net.DNSError
		certErr *tls.CertificateVerificationError
		unkAuth x509.UnknownAuthorityError
		recErr  tls.RecordHeaderError
		netErr  net.Error
		opErr   *net.OpError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return CauseCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return CauseTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return CauseRefused
	case errors.Is(err, syscall.ECONNRESET):
		return CauseReset
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return CauseClosed
	case errors.As(err, &dnsErr):
		return CauseDNS
	case errors.As(err, &certErr), errors.As(err, &unkAuth), errors.As(err, &recErr):
		return CauseTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return CauseTimeout
	case errors.As(err, &opErr):
		return CauseNetwork
	}
	return CauseOther
}
