// Package blob implements the shader container format and the per-task
// artifact outputs built on it.
//
// A container starts with an eight byte signature followed by a sequence of
// records. Each record is a four byte little-endian label length, a four
// byte little-endian payload length, the label bytes and the payload bytes.
// The label is the permutation key of the packed shader.
package blob

// Signature identifies a shader container file. The trailing byte is the
// format version.
var Signature = [8]byte{'S', 'F', 'B', 'L', 'O', 'B', 0x00, 0x01}
