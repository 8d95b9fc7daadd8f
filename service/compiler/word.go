package compiler

// mask returns the value mask for a width in bytes; interpreted values are
// unsigned words of up to 8 bytes.
func mask(width int) uint64 {
	if width <= 0 {
		return 0
	}
	if width >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(width)) - 1
}
