package generation

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"context"

	"gjinn/core"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://image.pollinations.ai"

// Pollinations generates images through the public pollinations.ai
// endpoint. The whole prompt plus render parameters live in the URL; the
// request succeeds when the endpoint serves the rendered image.
type Pollinations struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPollinations returns a client against baseURL (the public endpoint
// when empty). The API key is optional.
func NewPollinations(baseURL, apiKey string) *Pollinations {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Pollinations{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Pollinations) imageURL(prompt string, opts core.GenerateOptions) string {
	q := url.Values{}
	q.Set("width", fmt.Sprint(opts.Width))
	q.Set("height", fmt.Sprint(opts.Height))
	q.Set("seed", fmt.Sprint(opts.Seed))
	q.Set("nologo", "true")
	q.Set("enhance", "true")
	if opts.Model != "" {
		q.Set("model", opts.Model)
	}
	return p.baseURL + "/prompt/" + url.PathEscape(prompt) + "?" + q.Encode()
}

// Generate requests the image and returns its descriptor. The image bytes
// are discarded here; callers that want them on disk use Download.
func (p *Pollinations) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (*core.Result, error) {
	imageURL := p.imageURL(withStyle(prompt, opts.Style), opts)
	log := logrus.WithFields(logrus.Fields{
		"seed":  opts.Seed,
		"width": opts.Width,
	})
	log.Debug("Requesting image generation")

	body, err := p.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	return &core.Result{
		URL:         imageURL,
		Width:       opts.Width,
		Height:      opts.Height,
		Seed:        opts.Seed,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Download generates the image and returns its bytes along with the
// descriptor.
func (p *Pollinations) Download(ctx context.Context, prompt string, opts core.GenerateOptions) ([]byte, *core.Result, error) {
	imageURL := p.imageURL(withStyle(prompt, opts.Style), opts)
	body, err := p.fetch(ctx, imageURL)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("image generation failed: %w", err)
	}
	result := &core.Result{
		URL:         imageURL,
		Width:       opts.Width,
		Height:      opts.Height,
		Seed:        opts.Seed,
		GeneratedAt: time.Now().UTC(),
	}
	return data, result, nil
}

func (p *Pollinations) fetch(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("image generation failed: endpoint returned %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func withStyle(prompt, style string) string {
	if style == "" {
		return prompt
	}
	return prompt + ", " + style + " style"
}
