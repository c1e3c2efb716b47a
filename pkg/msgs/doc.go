// Package msgs defines ready-made records exchanged over CrossTalk.
package msgs

// Applications are free to define their own records; the ones here
// cover the link housekeeping traffic shared between firmware and host
// tooling. Object ids below 16 are claimed by this package, the range
// 16..32767 is available for application records. Negative ids are
// reserved by the codec.
