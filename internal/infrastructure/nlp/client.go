package nlp

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"BosonNLP/internal/config"
	"BosonNLP/internal/ports"
	"BosonNLP/pkg/bosonnlp"
)

var _ ports.NLPService = (*bosonnlp.Client)(nil)

// NewClient builds a BosonNLP client from config. Requests go through an
// otelhttp transport so spans are recorded when a tracer provider is set.
func NewClient(cfg config.APIConfig, logger *slog.Logger) *bosonnlp.Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = bosonnlp.DefaultRequestTimeout
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	opts := []bosonnlp.Option{
		bosonnlp.WithHTTPClient(httpClient),
		bosonnlp.WithCompression(!cfg.DisableCompression),
		bosonnlp.WithLogger(logger),
	}
	if cfg.URL != "" {
		opts = append(opts, bosonnlp.WithURL(cfg.URL))
	}

	return bosonnlp.NewClient(cfg.Token, opts...)
}
