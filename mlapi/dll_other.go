//go:build !windows

package mlapi

// LoadDLL always fails outside windows.
func LoadDLL(dir string) (Gateway, error) {
	return nil, ErrUnsupportedPlatform
}
