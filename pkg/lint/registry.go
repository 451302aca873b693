package lint

import (
	"sort"

	"github.com/leapstack-labs/einlint/pkg/core"
)

// Kind groups.
const (
	GroupStatic  = "static"
	GroupRuntime = "runtime"
	GroupConfig  = "config"
)

var kindInfos = map[Kind]core.KindInfo{
	ArityMismatch: {
		Name:        "arity-mismatch",
		Group:       GroupStatic,
		Description: "A tensor is referenced with a different number of indices than at its first use",
		Rationale:   "Every use of a tensor must name each of its dimensions exactly once. An extra or missing index means the expression reads a different array than intended.",
		BadExample:  "C[i,k] = A[i,j] * B[j,k]\nD[i] = A[i,j,k]",
		GoodExample: "C[i,k] = A[i,j] * B[j,k]\nD[i] = A[i,j]",
		Fix:         "Make the index list match the tensor's rank, or use a different name for a different tensor.",
	},
	LabelDrift: {
		Name:        "label-drift",
		Group:       GroupStatic,
		Description: "An index letter is far, alphabetically, from the letter first used at the same position",
		Rationale:   "Renaming i to j between uses is common and harmless. Jumping from z to a at the same position is more often a typo that silently contracts the wrong dimensions.",
		BadExample:  "y[i] = W[i,z] * x[z]\nv[i] = W[i,a] * u[i]",
		GoodExample: "y[i] = W[i,j] * x[j]\nv[i] = W[i,k] * u[k]",
		Fix:         "Use letters close to the first use, or raise tol if wide renames are intentional.",
	},
	RankMismatch: {
		Name:        "rank-mismatch",
		Group:       GroupRuntime,
		Description: "An array's dimensionality differs from the number of index labels",
		Rationale:   "Evaluators may broadcast or reshape silently when the rank is wrong. The check runs before any extent is recorded.",
		BadExample:  "A = zeros(2, 3)\nB[i,j,k] = A[i,j,k]",
		GoodExample: "A = zeros(2, 3)\nB[i,j] = A[i,j]",
	},
	SizeMismatch: {
		Name:        "size-mismatch",
		Group:       GroupRuntime,
		Description: "A dimension's extent differs from the extent first recorded for its label",
		Rationale:   "All dimensions sharing a label must have the same length. A mismatch produces wrong results or out-of-bounds reads in evaluators that do not check.",
		BadExample:  "A = zeros(2, 3); B = zeros(5, 4)\nC[i,k] = A[i,j] * B[j,k]",
		GoodExample: "A = zeros(2, 3); B = zeros(3, 4)\nC[i,k] = A[i,j] * B[j,k]",
		Fix:         "Transpose or slice the offending array, or give the dimensions different labels.",
	},
	UnrecognizedDirective: {
		Name:        "unrecognized-directive",
		Group:       GroupConfig,
		Description: "A configuration directive names no known option",
		Rationale:   "A misspelled directive would otherwise leave the intended policy silently unapplied.",
		BadExample:  "tolerance=5",
		GoodExample: "tol=5",
	},
	MalformedReference: {
		Name:        "malformed-reference",
		Group:       GroupConfig,
		Description: "Input does not have the shape the checker requires; always fails",
		Rationale:   "A reference without a tensor name, an unparseable label or a missing array is a programming error in the front-end, not a finding about user code.",
	},
}

func kindInfo(k Kind) core.KindInfo {
	info := kindInfos[k]
	info.ID = k.ID()
	info.Severity = core.SeverityError
	info.PolicyGoverned = k != MalformedReference
	return info
}

// AllKinds returns metadata for every diagnostic kind, ordered by ID.
func AllKinds() []core.KindInfo {
	out := make([]core.KindInfo, 0, len(kindInfos))
	for k := range kindInfos {
		out = append(out, kindInfo(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetKindByID returns metadata by ID ("EC02") or name ("label-drift").
func GetKindByID(id string) (core.KindInfo, bool) {
	for k, info := range kindInfos {
		if k.ID() == id || info.Name == id {
			return kindInfo(k), true
		}
	}
	return core.KindInfo{}, false
}

// GetKindsByGroup returns metadata for the kinds in a group, ordered by ID.
func GetKindsByGroup(group string) []core.KindInfo {
	var out []core.KindInfo
	for _, info := range AllKinds() {
		if info.Group == group {
			out = append(out, info)
		}
	}
	return out
}
