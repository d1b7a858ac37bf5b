package http_client

import (
	"net/http"
	"time"
)

var httpClient *http.Client

// GetClient returns the shared pooled client used for chain provider calls.
// Per-request deadlines come from the caller's context, so no global timeout
// is set here.
func GetClient() *http.Client {
	if httpClient != nil {
		return httpClient
	}

	httpClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableKeepAlives:   false,
		},
	}

	return httpClient
}
