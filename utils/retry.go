package utils

import (
	"fmt"
	"time"
)

// Retry runs fn up to maxRetries times with exponential backoff between
// attempts (2s, 4s, 8s...). Returns nil on the first success, or the last
// error once attempts are exhausted.
func Retry(maxRetries int, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxRetries {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			Warn("Attempt %d/%d failed: %v — retrying in %v", attempt, maxRetries, lastErr, wait)
			time.Sleep(wait)
		}
	}

	return fmt.Errorf("all %d attempts failed — last error: %w", maxRetries, lastErr)
}
