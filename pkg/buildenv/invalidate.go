// pkg/buildenv/invalidate.go
package buildenv

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// InvalidationList records every configuration input consulted while
// loading, together with the value observed. The surrounding build writes
// it as a stamp file and re-runs the tool whenever the stamp would differ;
// this is an explicit invalidation contract, not implicit caching.
type InvalidationList struct {
	seen   map[string]string
	sorted []string
}

// NewInvalidationList returns an empty list.
func NewInvalidationList() *InvalidationList {
	return &InvalidationList{seen: make(map[string]string)}
}

// Register records an input name and the value it resolved to.
// Re-registering a name overwrites the recorded value.
func (l *InvalidationList) Register(name, value string) {
	if _, ok := l.seen[name]; !ok {
		l.sorted = append(l.sorted, name)
	}
	l.seen[name] = value
}

// Names returns the registered input names, sorted.
func (l *InvalidationList) Names() []string {
	names := make([]string, len(l.sorted))
	copy(names, l.sorted)
	sort.Strings(names)
	return names
}

// Render returns the stamp file contents: one NAME=value line per input,
// sorted by name so the output is stable across runs.
func (l *InvalidationList) Render() string {
	var b strings.Builder
	b.WriteString("# ffbuild configuration inputs; a change re-runs the pipeline\n")
	for _, name := range l.Names() {
		fmt.Fprintf(&b, "%s=%s\n", name, l.seen[name])
	}
	return b.String()
}

// WriteStamp writes the rendered list to path.
func (l *InvalidationList) WriteStamp(path string) error {
	if err := os.WriteFile(path, []byte(l.Render()), 0644); err != nil {
		return fmt.Errorf("writing invalidation stamp: %w", err)
	}
	return nil
}
