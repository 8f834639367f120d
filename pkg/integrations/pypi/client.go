package pypi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/enorganic/requirements/pkg/buildinfo"
	"github.com/enorganic/requirements/pkg/cache"
	"github.com/enorganic/requirements/pkg/integrations"
	"github.com/enorganic/requirements/pkg/requirement"
)

// DefaultBaseURL is the PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

// PackageInfo holds metadata for the latest release of a project on PyPI.
type PackageInfo struct {
	Name           string            `json:"name"`            // Project name as published
	Version        string            `json:"version"`         // Latest version
	RequiresDist   []string          `json:"requires_dist"`   // Raw PEP 508 requirement strings
	RequiresPython string            `json:"requires_python"` // Python version constraint (may be empty)
	Summary        string            `json:"summary"`
	License        string            `json:"license"`
	Author         string            `json:"author"`
	HomePage       string            `json:"home_page"`
	ProjectURLs    map[string]string `json:"project_urls"`
}

// Client provides access to the PyPI JSON API. It is safe for concurrent
// use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client caching responses in backend for
// cacheTTL.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client: integrations.NewClient(backend, "pypi", cacheTTL, map[string]string{
			"Accept":     "application/json",
			"User-Agent": "requirements/" + buildinfo.Version,
		}),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a PyPI-compatible index, such as a
// private mirror exposing the JSON API. Responses from an index other than
// [DefaultBaseURL] are cached under keys scoped by its host.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimSuffix(base, "/")
	if c.baseURL != DefaultBaseURL {
		scope := c.baseURL
		if u, err := url.Parse(c.baseURL); err == nil && u.Host != "" {
			scope = u.Host + u.Path
		}
		c.SetKeyer(cache.NewScopedKeyer(nil, scope+":"))
	}
	return c
}

// FetchPackage retrieves metadata for the latest release of pkg. The name
// is canonicalized before lookup. If refresh is true the cache is bypassed.
//
// Returns an error matching [integrations.ErrNotFound] for unknown projects
// and [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = requirement.Canonicalize(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(pkg)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	*info = PackageInfo{
		Name:           data.Info.Name,
		Version:        data.Info.Version,
		RequiresDist:   data.Info.RequiresDist,
		RequiresPython: data.Info.RequiresPython,
		Summary:        data.Info.Summary,
		License:        extractLicenseType(data.Info.License, data.Info.Classifiers),
		Author:         data.Info.Author,
		HomePage:       data.Info.HomePage,
		ProjectURLs:    urls,
	}
	return nil
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name           string         `json:"name"`
	Version        string         `json:"version"`
	Summary        string         `json:"summary"`
	License        string         `json:"license"`
	Classifiers    []string       `json:"classifiers"`
	RequiresDist   []string       `json:"requires_dist"`
	RequiresPython string         `json:"requires_python"`
	ProjectURLs    map[string]any `json:"project_urls"`
	HomePage       string         `json:"home_page"`
	Author         string         `json:"author"`
}

// extractLicenseType prefers the license classifier's last segment
// ("License :: OSI Approved :: MIT License" -> "MIT License") and falls
// back to a short license field or its first line.
func extractLicenseType(license string, classifiers []string) string {
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			if parts := strings.Split(c, " :: "); len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}
	if license == "" {
		return ""
	}
	if len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}
	if first := strings.TrimSpace(strings.Split(license, "\n")[0]); len(first) < 50 {
		return first
	}
	return ""
}
