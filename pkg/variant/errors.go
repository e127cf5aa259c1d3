package variant

import "fmt"

// UnknownVariantError reports a candidate token with a modifier prefix no
// registered variant matches. The token is dropped; the build continues.
type UnknownVariantError struct {
	Variant string
	Token   string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q in %q", e.Variant, e.Token)
}
