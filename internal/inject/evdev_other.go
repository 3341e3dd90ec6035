//go:build !linux

package inject

// Evdev is only available on linux.
type Evdev struct{}

// NewEvdev reports ErrUnsupportedPlatform.
func NewEvdev() (*Evdev, error) {
	return nil, ErrUnsupportedPlatform
}

// PressKey implements Injector.
func (d *Evdev) PressKey(code int) error {
	return ErrUnsupportedPlatform
}

// ReleaseKey implements Injector.
func (d *Evdev) ReleaseKey(code int) error {
	return ErrUnsupportedPlatform
}

// CodeForChar implements CharCoder.
func (d *Evdev) CodeForChar(r rune) (int, bool) {
	return 0, false
}
