package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/corey/acm/internal/adapters/web"
	"github.com/corey/acm/internal/app"
)

// httpClient probes a local server; a short timeout keeps CLI commands snappy
// when the port file is stale.
var httpClient = resty.New().SetTimeout(500 * time.Millisecond)

// serverURL discovers a running server through its port file.
func serverURL(root string) (string, bool) {
	data, err := os.ReadFile(app.NewPaths(root).PortFile)
	if err != nil {
		return "", false
	}
	url := fmt.Sprintf("http://localhost:%s", strings.TrimSpace(string(data)))
	if _, err := fetchHealth(url); err != nil {
		return "", false
	}
	return url, true
}

func fetchHealth(url string) (*web.HealthResult, error) {
	var h web.HealthResult
	resp, err := httpClient.R().
		ForceContentType("application/json").
		SetResult(&h).
		Get(url + "/api/health")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("health: %s", resp.Status())
	}
	return &h, nil
}
