package loadgen

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
}

func (r Result) Details() []string {
	return []string{
		fmt.Sprintf("total_requests=%d", r.TotalRequests),
		fmt.Sprintf("failures=%d", r.Failures),
		fmt.Sprintf("status_2xx=%d", r.Status2xx),
		fmt.Sprintf("status_4xx=%d", r.Status4xx),
		fmt.Sprintf("status_5xx=%d", r.Status5xx),
	}
}

type request struct {
	method string
	path   string
	body   func(n int) string
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	profile := strings.ToLower(cfg.Profile)
	if profile == "" {
		profile = "mixed"
	}
	requests := requestsForProfile(profile)
	if len(requests) == 0 {
		return Result{}, fmt.Errorf("unknown profile: %s", cfg.Profile)
	}

	client := &http.Client{Timeout: 5 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures, s2xx, s4xx, s5xx atomic.Int64
	jobs := make(chan int, cfg.Concurrency*2)
	g, gctx := errgroup.WithContext(runCtx)

	for w := 0; w < cfg.Concurrency; w++ {
		g.Go(func() error {
			for n := range jobs {
				req := requests[n%len(requests)]
				var body io.Reader
				if req.body != nil {
					body = strings.NewReader(req.body(n))
				}
				httpReq, err := http.NewRequestWithContext(gctx, req.method, cfg.BaseURL+req.path, body)
				if err != nil {
					failures.Add(1)
					continue
				}
				if body != nil {
					httpReq.Header.Set("Content-Type", "application/json")
				}
				httpReq.Header.Set("Accept", "application/json")
				resp, err := client.Do(httpReq)
				if err != nil {
					if gctx.Err() == nil {
						failures.Add(1)
						observability.RecordLoadgenRequest(ctx, "transport_error", profile)
					}
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				total.Add(1)
				class := statusClass(resp.StatusCode)
				switch class {
				case "2xx":
					s2xx.Add(1)
				case "4xx":
					s4xx.Add(1)
				case "5xx":
					s5xx.Add(1)
				}
				observability.RecordLoadgenRequest(ctx, class, profile)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15))
		ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				select {
				case jobs <- rng.IntN(1 << 30):
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{
		TotalRequests: total.Load(),
		Failures:      failures.Load(),
		Status2xx:     s2xx.Load(),
		Status4xx:     s4xx.Load(),
		Status5xx:     s5xx.Load(),
	}, nil
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func validProduct(n int) string {
	return fmt.Sprintf(`{"product_name":"loadgen item %d","price":%d.%02d,"quantity":%d,"category":"Loadgen"}`, n, n%500, n%100, n%50)
}

func requestsForProfile(profile string) []request {
	list := request{method: http.MethodGet, path: "/api/products"}
	show := request{method: http.MethodGet, path: "/api/products/1"}
	missing := request{method: http.MethodGet, path: "/api/products/999999999"}
	create := request{method: http.MethodPost, path: "/api/products", body: validProduct}
	invalid := request{method: http.MethodPost, path: "/api/products", body: func(int) string { return `{"price":-1}` }}
	malformed := request{method: http.MethodPost, path: "/api/products", body: func(int) string { return `{"product_name":` }}

	switch profile {
	case "read":
		return []request{list, list, show}
	case "mixed":
		return []request{list, list, show, create, missing}
	case "error-heavy":
		return []request{missing, invalid, malformed, list}
	default:
		return nil
	}
}
