package taskgraph

import "time"

// RuntimeTzConfig carries a request's local and default-output
// timezones. A Task may hold one, and fingerprintTask hashes its zone
// names; the scheduler's node evaluators do not read it (TimeUnit takes
// its zone from its own Tz field, and the date builtins use each
// timestamp's own location).
type RuntimeTzConfig struct {
	// LocalTz is the request's local timezone.
	LocalTz *time.Location
	// DefaultOutputTz is the request's default output timezone.
	DefaultOutputTz *time.Location
}

// NewRuntimeTzConfig resolves IANA zone names into a RuntimeTzConfig,
// falling back to the local zone for an empty default output zone.
func NewRuntimeTzConfig(localTz, defaultOutputTz string) (*RuntimeTzConfig, error) {
	local, err := time.LoadLocation(localTz)
	if err != nil {
		return nil, err
	}
	out := local
	if defaultOutputTz != "" {
		out, err = time.LoadLocation(defaultOutputTz)
		if err != nil {
			return nil, err
		}
	}
	return &RuntimeTzConfig{LocalTz: local, DefaultOutputTz: out}, nil
}
