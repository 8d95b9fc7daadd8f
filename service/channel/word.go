package channel

// Word payloads are unsigned integers transacted on channels in little-endian
// byte order. Drivers use these helpers to seed and inspect queues between
// ticks.

// EncodeUint encodes value as a width-byte little-endian payload, truncating
// to the width.
func EncodeUint(value uint64, width int) []byte {
	buf := make([]byte, width)
	PutUint(buf, value)
	return buf
}

// PutUint encodes value into buf, little-endian, truncating to len(buf).
func PutUint(buf []byte, value uint64) {
	for i := range buf {
		buf[i] = byte(value >> (8 * uint(i)))
	}
}

// DecodeUint decodes a little-endian payload of up to 8 bytes.
func DecodeUint(buf []byte) uint64 {
	var value uint64
	for i := len(buf) - 1; i >= 0; i-- {
		value = value<<8 | uint64(buf[i])
	}
	return value
}
