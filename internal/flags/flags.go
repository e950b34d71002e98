// Package flags pushes a scenario's feature flags to a flag service before
// the first page is visited.
package flags

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/chriserin/smartui/internal/scenario"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"
)

// Service applies feature flags. Implementations may do nothing.
type Service interface {
	Apply(ctx context.Context, features map[string]scenario.Feature) error
}

// Cache is cleared after every successful Apply so the application under
// test sees the new flag values.
type Cache interface {
	Clear(ctx context.Context) error
}

// Nop ignores flags.
type Nop struct{}

func (Nop) Apply(context.Context, map[string]scenario.Feature) error { return nil }

// Client posts flags to a flag service. With no URL it only logs them.
type Client struct {
	URL   string
	HTTP  *http.Client
	Cache Cache
	Log   logrus.FieldLogger
}

func (c *Client) Apply(ctx context.Context, features map[string]scenario.Feature) error {
	log := c.logger()
	sc := scenario.Scenario{Features: features}
	for _, name := range sc.FeatureNames() {
		f := features[name]
		log.WithFields(logrus.Fields{
			"feature": name,
			"enabled": f.Enabled,
			"context": f.Context,
		}).Info("setting feature flag")
	}

	if c.URL != "" && len(features) > 0 {
		body, err := Encode(features)
		if err != nil {
			return err
		}
		if err := c.post(ctx, c.URL, body); err != nil {
			return fmt.Errorf("applying feature flags: %w", err)
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Clear(ctx); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	return send(ctx, c.httpClient(), http.MethodPost, url, body)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	return logrus.StandardLogger()
}

// Encode renders features as {"features":[{"name","enabled","context"}]}
// in name order.
func Encode(features map[string]scenario.Feature) ([]byte, error) {
	out := []byte(`{"features":[]}`)
	sc := scenario.Scenario{Features: features}
	var err error
	for i, name := range sc.FeatureNames() {
		f := features[name]
		prefix := fmt.Sprintf("features.%d.", i)
		if out, err = sjson.SetBytes(out, prefix+"name", name); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, prefix+"enabled", f.Enabled); err != nil {
			return nil, err
		}
		ctx := f.Context
		if ctx == nil {
			ctx = map[string]string{}
		}
		if out, err = sjson.SetBytes(out, prefix+"context", ctx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// HTTPCache clears a remote cache with a POST to URL.
type HTTPCache struct {
	URL  string
	HTTP *http.Client
	Log  logrus.FieldLogger
}

func (c *HTTPCache) Clear(ctx context.Context) error {
	if c.Log != nil {
		c.Log.WithField("url", c.URL).Info("clearing cache")
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	return send(ctx, client, http.MethodPost, c.URL, nil)
}

// LogCache only records that a clear was requested.
type LogCache struct {
	Log logrus.FieldLogger
}

func (c LogCache) Clear(context.Context) error {
	if c.Log != nil {
		c.Log.Info("clearing cache")
	}
	return nil
}

func send(ctx context.Context, client *http.Client, method, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}
	return nil
}
