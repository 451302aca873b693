package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/einlint/pkg/label"
)

// Info is a read-only snapshot of a Checker.
type Info struct {
	Options Options                   `json:"options"`
	Labels  map[string]label.Sequence `json:"labels"`
	Sizes   map[label.Label]int       `json:"sizes"`
}

// Info returns deep copies of the options and both stores.
func (c *Checker) Info() Info {
	return Info{
		Options: c.Options(),
		Labels:  c.labels.Snapshot(),
		Sizes:   c.sizes.Snapshot(),
	}
}

// Tensors returns the recorded tensor identities, sorted.
func (i Info) Tensors() []string {
	out := make([]string, 0, len(i.Labels))
	for t := range i.Labels {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SizeLabels returns the labels with a recorded extent, sorted by their source form.
func (i Info) SizeLabels() []label.Label {
	out := make([]label.Label, 0, len(i.Sizes))
	for l := range i.Sizes {
		out = append(out, l)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].String() < out[b].String()
	})
	return out
}

// String renders a plain-text dump.
func (i Info) String() string {
	var b strings.Builder
	o := i.Options
	fmt.Fprintf(&b, "options: alpha=%t tol=%d size=%t throw=%t named=%s wild=%t\n",
		o.AlphaCheck, o.Tolerance, o.SizeCheck, o.ThrowOnError, o.NamedPolicy, o.BindWildcards)

	fmt.Fprintf(&b, "labels (%d):\n", len(i.Labels))
	for _, t := range i.Tensors() {
		fmt.Fprintf(&b, "  %s%s\n", t, i.Labels[t])
	}

	fmt.Fprintf(&b, "sizes (%d):\n", len(i.Sizes))
	for _, l := range i.SizeLabels() {
		fmt.Fprintf(&b, "  %s = %d\n", l, i.Sizes[l])
	}
	return b.String()
}
