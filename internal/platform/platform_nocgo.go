//go:build !cgo

package platform

func NewPlatformWindowWrapper(conf WindowConfig) (PlatformWindowWrapper, error) {
	return nil, ErrUnsupported
}
