// Package httpclient builds the HTTP clients and requests used by goku workers.
//
// # Request Building
//
// Use [NewRequestBuilder] to resolve the method, URL, body and headers of a
// run once, then call Build for every iteration:
//
//	builder, err := httpclient.NewRequestBuilder(settings)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx)
//
// The body is attached verbatim and headers are applied in the configured
// order, so a later duplicate overwrites an earlier value.
//
// # HTTP Client
//
// [NewClient] creates one client per worker. Each client owns its transport
// and therefore its own connection pool, which makes the client count a
// direct knob on connection concurrency:
//
//	client, err := httpclient.NewClient(httpclient.ClientOptions{
//		Timeout:   settings.RequestTimeout(),
//		KeepAlive: settings.KeepAliveInterval(),
//	})
//
// TLS certificate validation is disabled for every client.
package httpclient
