// Package resilience provides retry with exponential backoff and
// jitter, used by the client for transient transport failures.
package resilience
