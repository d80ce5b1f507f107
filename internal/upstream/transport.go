package upstream

import (
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is kept in a StatusError.
const maxErrorBody = 4 << 10

// StatusTransport is an http.RoundTripper that turns non-2xx responses into a
// *StatusError. It is used for clients built by third-party SDKs that decode
// the body without looking at the status code.
type StatusTransport struct {
	Upstream string            // Upstream is the name reported in StatusError.
	Base     http.RoundTripper // Base performs the request; nil means http.DefaultTransport.
}

// RoundTrip implements http.RoundTripper.
func (st *StatusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := st.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return nil, &StatusError{Upstream: st.Upstream, StatusCode: resp.StatusCode, Body: string(payload)}
}

// WithStatusErrors returns a copy of client whose transport reports non-2xx
// responses as *StatusError. A nil client selects http.DefaultClient.
func WithStatusErrors(upstream string, client *http.Client) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}

	wrapped := *client
	wrapped.Transport = &StatusTransport{Upstream: upstream, Base: client.Transport}

	return &wrapped
}
