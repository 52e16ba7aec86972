// pkg/nativebuild/env.go
package nativebuild

import (
	"os"
	"strings"
)

// Environment is an explicit child-process environment. It is built
// immutably per spawn and handed to the runner, so search paths reach
// the build tools without mutating the global process environment.
type Environment struct {
	vars []string
}

// InheritEnvironment snapshots the current process environment.
func InheritEnvironment() Environment {
	return Environment{vars: os.Environ()}
}

// With returns a copy of the environment with key set to value,
// replacing any existing entry for key.
func (e Environment) With(key, value string) Environment {
	out := make([]string, 0, len(e.vars)+1)
	prefix := key + "="
	for _, v := range e.vars {
		if !strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	out = append(out, prefix+value)
	return Environment{vars: out}
}

// Get returns the value for key, if present.
func (e Environment) Get(key string) (string, bool) {
	prefix := key + "="
	for _, v := range e.vars {
		if strings.HasPrefix(v, prefix) {
			return v[len(prefix):], true
		}
	}
	return "", false
}

// Slice returns the environment in the form expected by exec.Cmd.
func (e Environment) Slice() []string {
	out := make([]string, len(e.vars))
	copy(out, e.vars)
	return out
}
