package httpclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/torosent/goku/internal/config"
)

// BodySource yields a fresh reader over the request body for every request.
type BodySource interface {
	NewReader() (io.ReadCloser, error)
	ContentLength() (int64, bool)
}

// NewBodySource returns the verbatim body configured for the run. The body
// file, if any, was already read when the settings were loaded.
func NewBodySource(s *config.Settings) (BodySource, error) {
	if s == nil {
		return nil, errors.New("settings cannot be nil")
	}
	if s.Body != "" {
		return &inlineBodySource{data: []byte(s.Body)}, nil
	}
	return emptyBodySource{}, nil
}

type inlineBodySource struct {
	data []byte
}

func (s *inlineBodySource) NewReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *inlineBodySource) ContentLength() (int64, bool) {
	return int64(len(s.data)), true
}

type emptyBodySource struct{}

func (emptyBodySource) NewReader() (io.ReadCloser, error) {
	return http.NoBody, nil
}

func (emptyBodySource) ContentLength() (int64, bool) {
	return 0, true
}
