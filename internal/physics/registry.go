package physics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spherebox/internal/sphere"
)

var (
	ErrUnknownField = errors.New("physics: unknown field")
	ErrUnknownParam = errors.New("physics: unknown parameter")
)

var constructors = map[string]func() sphere.Field{
	"none":    func() sphere.Field { return None{} },
	"gravity": func() sphere.Field { return NewGravity() },
	"spring":  func() sphere.Field { return NewSpring() },
	"drag":    func() sphere.Field { return NewDrag() },
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a field from a name such as "gravity" or "gravity+drag" and
// applies params to it. An empty name is "none".
func New(name string, params map[string]float64) (sphere.Field, error) {
	if name == "" {
		name = "none"
	}

	var fields Sum
	for _, part := range strings.Split(name, "+") {
		part = strings.TrimSpace(part)
		ctor, ok := constructors[part]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownField, part, Names())
		}
		fields = append(fields, ctor())
	}

	var field sphere.Field = fields
	if len(fields) == 1 {
		field = fields[0]
	}

	if len(params) == 0 {
		return field, nil
	}
	c, ok := field.(Configurable)
	if !ok {
		return nil, fmt.Errorf("%w: field %q takes no parameters", ErrUnknownParam, name)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.SetParam(k, params[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
	}
	return field, nil
}

// AccelThreshold is an adaptive substep heuristic: one substep per 1/scale
// units of acceleration magnitude.
func AccelThreshold(scale float32) func(mgl32.Vec3) int {
	return func(a mgl32.Vec3) int {
		return int(math.Ceil(float64(a.Len() * scale)))
	}
}
