// Package frame implements synchronization, validation and decoding of the
// Plantower PMS5003 serial wire format.
//
// Each frame on the wire is the two marker bytes 0x42 0x4D followed by a
// 30-byte big-endian body: a u16 length field that must read 28, thirteen
// u16 data words (twelve measurements plus one reserved word) and a trailing
// u16 checksum. The checksum is the byte-wise sum of the marker and every
// body byte before the checksum field, with 16-bit wraparound.
package frame

import "encoding/binary"

const (
	marker0 byte = 0x42
	marker1 byte = 0x4D

	// BodyBytes is the fixed frame size after the marker.
	BodyBytes = 30

	// declaredLength is the required value of the leading length field:
	// thirteen data words plus the checksum.
	declaredLength = 2*13 + 2

	// NumFields is the number of measurement fields in a frame.
	NumFields = 12
)

// Variant selects the sensor model a process decodes for. It is fixed for
// the lifetime of the process.
type Variant int

const (
	// PMS5003 is the plain particulate matter sensor.
	PMS5003 Variant = iota
	// PMS5003T replaces the 5um/10um count bins with temperature and
	// humidity, transmitted in tenths of a unit.
	PMS5003T
)

// Labels returns the output field names in wire order for this variant.
func (v Variant) Labels() [NumFields]string {
	labels := [NumFields]string{
		"std_pm1", "std_pm2_5", "std_pm10",
		"atm_pm1", "atm_pm2_5", "atm_pm10",
		"count_0_3um", "count_0_5um", "count_1um",
		"count_2_5um", "count_5um", "count_10um",
	}
	if v == PMS5003T {
		labels[10] = "temperature"
		labels[11] = "humidity"
	}

	return labels
}

// Measurement holds the twelve decoded fields of one valid frame, in wire
// order. Immutable once returned by the decoder.
type Measurement struct {
	Values [NumFields]float64
}

// decode converts a validated frame body into a Measurement. The body has
// already passed length and checksum validation, so decoding cannot fail.
func decode(body []byte, variant Variant) Measurement {
	var m Measurement
	for i := 0; i < NumFields; i++ {
		m.Values[i] = float64(binary.BigEndian.Uint16(body[2+2*i:]))
	}

	if variant == PMS5003T {
		// Tenths of a degree / tenths of a percent on the wire.
		m.Values[10] /= 10.0
		m.Values[11] /= 10.0
	}

	return m
}

// validBody reports whether a frame body passes the declared-length and
// checksum checks. The checksum covers the marker bytes even though they are
// not part of the body, and wraps at 16 bits as the protocol does.
func validBody(body []byte) (ok bool, reason RejectReason) {
	if binary.BigEndian.Uint16(body[0:2]) != declaredLength {
		return false, RejectLength
	}

	sum := uint16(marker0) + uint16(marker1)
	for _, b := range body[:BodyBytes-2] {
		sum += uint16(b)
	}
	if sum != binary.BigEndian.Uint16(body[BodyBytes-2:]) {
		return false, RejectChecksum
	}

	return true, ""
}
