package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// HTTPFingerprintBudget is the total wall-clock allowance for a
// fingerprint fetch across all candidate paths.
const HTTPFingerprintBudget = 2600 * time.Millisecond

const httpFingerprintBodyLimit = 8192

var fingerprintPaths = []string{"/", "/index.html", "/mainFrame.htm", "/error.html"}

var (
	sharedClientOnce sync.Once
	sharedClient     *http.Client
)

func httpClient() *http.Client {
	sharedClientOnce.Do(func() {
		sharedClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	})
	return sharedClient
}

// Fingerprint issues GET requests against a fixed set of candidate
// paths on ip:port, in order, and concatenates the Server header, the
// WWW-Authenticate header, and up to 8192 bytes of body from every
// response that came back. Non-empty fragments are joined with a
// single space. TLS certificate validation is bypassed so self-signed
// camera web UIs still respond. The whole fetch is bounded by a 2.6s
// budget; any request error is skipped, and an empty string is
// returned if nothing came back at all.
func Fingerprint(ctx context.Context, ip string, port int, useTLS bool) string {
	ctx, cancel := context.WithTimeout(ctx, HTTPFingerprintBudget)
	defer cancel()

	scheme := "http"
	if useTLS {
		scheme = "https"
	}

	client := httpClient()
	var fragments []string

	for _, path := range fingerprintPaths {
		if ctx.Err() != nil {
			break
		}

		url := fmt.Sprintf("%s://%s:%d%s", scheme, ip, port, path)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", "LocalCam/1.0")

		resp, err := client.Do(req)
		if err != nil {
			continue
		}

		if server := resp.Header.Get("Server"); server != "" {
			fragments = append(fragments, server)
		}
		if auth := resp.Header.Get("WWW-Authenticate"); auth != "" {
			fragments = append(fragments, auth)
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, httpFingerprintBodyLimit))
		resp.Body.Close()
		if len(body) > 0 {
			fragments = append(fragments, string(body))
		}
	}

	return strings.Join(fragments, " ")
}
