// Package comm provides the CrossTalk framing engine.
package comm

// CrossTalk carries typed records as length-delimited, CRC-protected
// frames over a byte-oriented serial link that may also carry
// interleaved free-form bytes (e.g. log lines).
//
// Every frame on the wire is:
//
//	offset  size  field
//	0       1     start marker 0x02
//	1       1     start marker 0x42
//	2       2     object id, signed 16-bit little-endian
//	4       2     payload length N, unsigned 16-bit little-endian
//	6       N     payload (see package codec)
//	6+N     2     CRC-16 over bytes [0, 6+N), little-endian
//
// Bytes that do not form a validating frame are delivered verbatim to
// the caller through Read and Skip.
//
// There is no acknowledgement, retransmission or encryption at this
// layer. Frames arrive in send order over a single transport.
