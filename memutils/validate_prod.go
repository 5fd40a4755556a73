//go:build !debug_memsim

package memutils

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_memsim build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugCheckPositive will verify that the numerical value passed in is greater than zero, and panics if it is not.
// This method no-ops unless the debug_memsim build tag is present.
func DebugCheckPositive(value int, name string) {

}
