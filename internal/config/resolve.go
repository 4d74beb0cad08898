package config

// Defaults applied by Resolve for fields set in neither source.
const (
	DefaultConnections = 100
	DefaultDuration    = 60
)

// Resolved is the merged, fully-typed configuration handed to the engine. It
// is constructed once by Resolve, checked by Validate, and never mutated
// afterward; it is passed by value so the engine cannot share state with the
// bootstrap.
type Resolved struct {
	Target        string
	Method        string
	Attacks       []string
	Connections   int
	Duration      int // seconds
	ConfirmTarget string
	Stealth       bool
}

// Resolve merges the config file and the command line into a single Resolved
// value. The file is the base layer: everything it sets is taken as-is,
// including false and zero values. The command line overrides per field, but
// only when the field was actually passed and its value is not the boolean
// false sentinel. A boolean flag that was not passed (or was passed as false)
// therefore never overrides a true set in the file: flags can only ever turn
// such a setting on relative to the file, never off.
//
// Defaults (connections=100, duration=60, stealth=false) fill whatever is
// still unset after both layers. Resolve never fails and is deterministic;
// required-field checks belong to Validate.
func Resolve(file FileConfig, args Args) Resolved {
	var (
		target        = fileString(file, "target")
		method        = fileString(file, "method")
		attacks       = fileStringSlice(file, "attacks")
		connections   = fileInt(file, "connections")
		duration      = fileInt(file, "duration")
		confirmTarget = fileString(file, "confirm_target")
		stealth       = fileBool(file, "stealth")
	)

	if args.Target != nil {
		target = args.Target
	}
	if args.Method != nil {
		method = args.Method
	}
	if args.Attacks != nil {
		attacks = args.Attacks
	}
	if args.Connections != nil {
		connections = args.Connections
	}
	if args.Duration != nil {
		duration = args.Duration
	}
	if args.ConfirmTarget != nil {
		confirmTarget = args.ConfirmTarget
	}
	// Tri-state on purpose: absent and explicit false both leave the file
	// value in place.
	if args.Stealth != nil && *args.Stealth {
		stealth = args.Stealth
	}

	out := Resolved{
		Attacks:     attacks,
		Connections: DefaultConnections,
		Duration:    DefaultDuration,
	}
	if target != nil {
		out.Target = *target
	}
	if method != nil {
		out.Method = *method
	}
	if connections != nil {
		out.Connections = *connections
	}
	if duration != nil {
		out.Duration = *duration
	}
	if confirmTarget != nil {
		out.ConfirmTarget = *confirmTarget
	}
	if stealth != nil {
		out.Stealth = *stealth
	}
	return out
}

// File-layer coercion helpers. The schema check in LoadFile guarantees the
// types for recognized keys, but these stay nil-safe so Resolve can also be
// fed hand-built mappings in tests.

func fileString(m FileConfig, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

func fileInt(m FileConfig, key string) *int {
	switch v := m[key].(type) {
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	}
	return nil
}

func fileBool(m FileConfig, key string) *bool {
	if b, ok := m[key].(bool); ok {
		return &b
	}
	return nil
}

func fileStringSlice(m FileConfig, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
