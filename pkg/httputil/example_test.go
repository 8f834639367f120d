package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/enorganic/requirements/pkg/httputil"
)

func ExampleRetry() {
	attempts := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return &httputil.RetryableError{Err: errors.New("503 service unavailable")}
		}
		return nil
	})
	fmt.Println("attempts:", attempts, "error:", err)
	// Output:
	// attempts: 3 error: <nil>
}

func ExampleRetry_permanent() {
	attempts := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return errors.New("404 not found")
	})
	fmt.Println("attempts:", attempts, "error:", err)
	// Output:
	// attempts: 1 error: 404 not found
}
