// Package config implements the configuration pipeline: loading the optional
// YAML config file, reconciling it with command-line arguments under a fixed
// precedence rule, and validating the result before the engine runs.
package config

// Attack method names accepted by -m/--method and the config file.
const (
	MethodHTTPFlood = "http-flood"
	MethodSlowloris = "slowloris"
	MethodMixed     = "mixed"
)

// Args holds the command-line arguments exactly as parsed, before any merging
// or defaulting. Pointer fields distinguish "not passed" from a zero value;
// that distinction drives the override rule in Resolve.
type Args struct {
	Target        *string
	Method        *string
	Attacks       []string
	Connections   *int
	Duration      *int
	ConfirmTarget *string
	Stealth       *bool
}
