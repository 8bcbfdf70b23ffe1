package isd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gf2decode/isd/isdform"
	"github.com/gf2decode/isd/isdlog"
)

// config holds the driver's tunable parameters, mirroring the teacher's
// functional-options idiom: an unexported struct with defaults, an Option
// type, With* constructors, and a DefaultConfig accessor.
type config struct {
	l              int
	u              int
	updateType     isdform.UpdateType
	verifySolution bool
	log            *isdlog.Logger
}

// Option configures a Driver at construction time.
type Option func(*config)

// DefaultConfig returns a fresh copy of the driver's default parameters:
// l=0, u=-1 (auto), updatetype=14, verifysolution=true, logging discarded.
func DefaultConfig() config {
	return config{l: 0, u: -1, updateType: isdform.UpdateType14, verifySolution: true, log: isdlog.Discard()}
}

// WithLogger attaches a Logger the driver reports its phase transitions
// and solution discovery to. The default discards all output.
func WithLogger(l *isdlog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithL sets the number of H2T/S2 columns the sub-ISD sees.
func WithL(l int) Option {
	return func(c *config) { c.l = l }
}

// WithU sets the number of echelon/ISD columns swapped per iteration.
// A negative value (the default) lets the ISD form pick automatically.
func WithU(u int) Option {
	return func(c *config) { c.u = u }
}

// WithUpdateType selects the column-swap strategy used between iterations.
func WithUpdateType(ut isdform.UpdateType) Option {
	return func(c *config) { c.updateType = ut }
}

// WithVerifySolution toggles the driver's internal solution re-check
// against the original (H,S,w) before reporting success.
func WithVerifySolution(v bool) Option {
	return func(c *config) { c.verifySolution = v }
}

func newConfig(opts ...Option) config {
	c := DefaultConfig()
	for _, o := range opts {
		o(&c)
	}
	return c
}

// ParseOptions adapts a string->string option map (as accepted by the
// reference's configmap_t) into a slice of Option values. Boolean keys
// honor the "no-<name>" negation convention.
func ParseOptions(m map[string]string) ([]Option, error) {
	var opts []Option
	for k, v := range m {
		name := k
		negate := false
		if strings.HasPrefix(k, "no-") {
			name = strings.TrimPrefix(k, "no-")
			negate = true
		}
		if negate && name != "verifysolution" {
			return nil, fmt.Errorf("isd.ParseOptions: %q does not support no- negation", k)
		}
		switch name {
		case "l":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("isd.ParseOptions: l: %w", err)
			}
			opts = append(opts, WithL(n))
		case "u":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("isd.ParseOptions: u: %w", err)
			}
			opts = append(opts, WithU(n))
		case "updatetype":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("isd.ParseOptions: updatetype: %w", err)
			}
			opts = append(opts, WithUpdateType(isdform.UpdateType(n)))
		case "verifysolution":
			b := true
			if v != "" {
				parsed, err := strconv.ParseBool(v)
				if err != nil {
					return nil, fmt.Errorf("isd.ParseOptions: verifysolution: %w", err)
				}
				b = parsed
			}
			if negate {
				b = !b
			}
			opts = append(opts, WithVerifySolution(b))
		default:
			return nil, fmt.Errorf("isd.ParseOptions: unknown option %q", k)
		}
	}
	return opts, nil
}
