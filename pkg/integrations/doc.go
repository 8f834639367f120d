// Package integrations provides HTTP clients for package index APIs.
//
// The [Client] type carries the shared plumbing: response caching through a
// [cache.Cache], retries with backoff for transient failures, default
// headers, and observability hooks. Index-specific clients embed it; see
// [pypi] for the Python Package Index JSON API.
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//	info, err := client.FetchPackage(ctx, "flask", false)
//
// [cache.Cache]: github.com/enorganic/requirements/pkg/cache.Cache
// [pypi]: github.com/enorganic/requirements/pkg/integrations/pypi
package integrations
