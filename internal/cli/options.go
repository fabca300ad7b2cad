package cli

import (
	"strconv"
	"time"
)

// The Optional types below implement flag.Value while recording whether the
// flag appeared on the command line at all. Ptr returns nil when the flag was
// never set, which is exactly the shape config.Overrides wants.

// OptionalString records a string flag and whether it was set.
type OptionalString struct {
	value string
	set   bool
}

func (o *OptionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *OptionalString) String() string {
	return o.value
}

func (o *OptionalString) Ptr() *string {
	if !o.set {
		return nil
	}
	return &o.value
}

// OptionalInt records an integer flag and whether it was set.
type OptionalInt struct {
	value int
	set   bool
}

func (o *OptionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *OptionalInt) String() string {
	if !o.set {
		return ""
	}
	return strconv.Itoa(o.value)
}

func (o *OptionalInt) Ptr() *int {
	if !o.set {
		return nil
	}
	return &o.value
}

// OptionalDuration records a duration flag and whether it was set.
type OptionalDuration struct {
	value time.Duration
	set   bool
}

func (o *OptionalDuration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *OptionalDuration) String() string {
	if !o.set {
		return ""
	}
	return o.value.String()
}

func (o *OptionalDuration) Ptr() *time.Duration {
	if !o.set {
		return nil
	}
	return &o.value
}

// OptionalBool records a boolean flag and whether it was set.
type OptionalBool struct {
	value bool
	set   bool
}

func (o *OptionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *OptionalBool) String() string {
	if !o.set {
		return ""
	}
	return strconv.FormatBool(o.value)
}

// IsBoolFlag lets the flag package accept the bare -flag form.
func (o *OptionalBool) IsBoolFlag() bool {
	return true
}

func (o *OptionalBool) Ptr() *bool {
	if !o.set {
		return nil
	}
	return &o.value
}
