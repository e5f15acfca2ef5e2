// Package ws2812b encodes LED colors into the pulse train of the WS2812B
// one-wire protocol.
//
// Each bit is a high half-period followed by a low half-period. A one bit
// has a longer high than a zero bit, which is what the LED controller
// discriminates. After all bits, the line is held low for at least 50us to
// latch the colors.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/WS2812B.pdf
package ws2812b
