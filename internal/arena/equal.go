package arena

import "reflect"

// structuralEqual is the default equality policy. Signal and computed
// values are arbitrary snapshots (slices of rows, maps of summaries),
// so identity comparison on `any` would panic on uncomparable types;
// structural comparison is what "the value didn't change" means here.
func structuralEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
