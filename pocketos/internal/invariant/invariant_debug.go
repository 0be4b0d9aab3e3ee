//go:build !release

package invariant

func defaultHandler(v Violation) {
	panic(v)
}
