// Package adalight provides the framed color stream protocol.
package adalight

// A host (e.g. a screen grabber) sends full strip updates over a serial
// link. Each frame starts with a magic prefix used to resynchronize the
// stream, followed by a 3-byte header and the R, G, B triples of every LED:
//
//   'A' 'd' 'a' | hi lo chk | R G B  R G B ...
//
// hi/lo carry the LED count minus one and chk is hi^lo^0x55. The receiving
// side always reads a payload sized from the configured strip length, the
// length bytes are only reported. The checksum is not validated unless a
// ChecksumFunc is installed on the Parser.
//
// There is no acknowledgement. Any incomplete frame is dropped and the
// parser starts seeking the magic prefix again.
