package transfer

import "k8s.io/apimachinery/pkg/util/sets"

// MergeExcludes returns the union of the project's and the server's exclude
// patterns, deduplicated and sorted so that generated commands are
// reproducible.
func MergeExcludes(projectExcludes, serverExcludes []string) []string {
	return sets.List(sets.New(projectExcludes...).Insert(serverExcludes...))
}
