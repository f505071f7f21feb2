package cosmac

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/nf/c8/chip8"
)

// Cond is a breakpoint condition: a Starlark expression over the machine
// registers. The names v0 to vf, i, pc, dt, st, sp and ticks are bound
// to the register values, and mem(addr) reads a byte of memory.
//
//	v3 == 0x10 and mem(i) != 0
type Cond struct {
	expr string
}

// CompileCond checks expr against an empty machine and returns it as a
// Cond.
func CompileCond(expr string) (*Cond, error) {
	if strings.ContainsAny(expr, "\r\n") {
		return nil, fmt.Errorf("condition %q spans more than one line", expr)
	}
	c := &Cond{expr: expr}
	if _, err := c.Eval(&chip8.Machine{}); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cond) String() string { return c.expr }

// Eval reports whether the condition holds for m.
func (c *Cond) Eval(m *chip8.Machine) (bool, error) {
	thread := starlark.Thread{Name: "cond"}
	opts := syntax.FileOptions{}
	prog := "rc = (" + c.expr + ")\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "cond", prog, machineEnv(m))
	if err != nil {
		return false, err
	}
	rc, ok := dict["rc"]
	if !ok {
		return false, fmt.Errorf("condition %q has no value", c.expr)
	}
	return bool(rc.Truth()), nil
}

func machineEnv(m *chip8.Machine) starlark.StringDict {
	env := starlark.StringDict{
		"i":     starlark.MakeInt(int(m.I)),
		"pc":    starlark.MakeInt(int(m.PC)),
		"dt":    starlark.MakeInt(int(m.DT)),
		"st":    starlark.MakeInt(int(m.ST)),
		"sp":    starlark.MakeInt(int(m.Stack.Ptr)),
		"ticks": starlark.MakeUint64(m.Ticks),
		"mem": starlark.NewBuiltin("mem", func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var addr int
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &addr); err != nil {
				return nil, err
			}
			if addr < 0 || addr >= chip8.MemorySize {
				return nil, fmt.Errorf("%s: address %#x out of range", fn.Name(), addr)
			}
			return starlark.MakeInt(int(m.Mem[addr])), nil
		}),
	}
	for r, v := range m.V {
		env[fmt.Sprintf("v%x", r)] = starlark.MakeInt(int(v))
	}
	return env
}
