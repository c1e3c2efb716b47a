// Package serial provides byte-channel implementations for real and
// in-memory transports.
package serial

// The CrossTalk engine consumes the comm.ByteChannel capability and
// stays transport-agnostic. This package supplies the concrete ends:
// Port wraps a host serial device (UART, USB CDC-ACM) and Pipe connects
// two endpoints in memory for tests and loopback tools.
