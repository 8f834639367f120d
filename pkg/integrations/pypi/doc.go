// Package pypi provides an HTTP client for the Python Package Index JSON
// API (https://pypi.org/pypi/<name>/json).
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//	info, err := client.FetchPackage(ctx, "flask", false) // false = use cache
//
// [PackageInfo.RequiresDist] is returned verbatim, markers included, so that
// callers can evaluate extras and environment markers themselves.
package pypi
