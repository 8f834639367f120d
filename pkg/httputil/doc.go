// Package httputil provides retry helpers for registry HTTP clients.
//
// [Retry] runs an operation up to a number of attempts with exponential
// backoff. Only errors wrapped in [RetryableError] are retried; anything
// else is returned at once:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Registry clients wrap network failures, 429 and 5xx responses; 404 and
// other client errors are final.
package httputil
