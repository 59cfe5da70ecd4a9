// Package emit renders measurement records as line-delimited JSON.
//
// The record format is a fixed contract: keys appear in wire order with the
// two variant-dependent names last, the timestamp carries one decimal and
// every measurement two. encoding/json cannot guarantee that ordering with
// variant-dependent keys, so the record is rendered explicitly.
package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/LukaszMeyer/pms5003/internal/errors"
	"github.com/LukaszMeyer/pms5003/internal/frame"
)

// Writer emits one record per call to a destination stream.
type Writer struct {
	w      io.Writer
	labels [frame.NumFields]string
}

// NewWriter returns a Writer emitting records with the given variant's
// field names.
func NewWriter(w io.Writer, variant frame.Variant) *Writer {
	return &Writer{
		w:      w,
		labels: variant.Labels(),
	}
}

// Emit writes one record: elapsed seconds since process start, the number of
// measurements folded into the record, then the twelve measurement fields.
func (w *Writer) Emit(m frame.Measurement, numMeasurements uint64, elapsedSeconds float64) error {
	var b strings.Builder
	fmt.Fprintf(&b, `{"timestamp":%.1f,"num_measurements":%d`, elapsedSeconds, numMeasurements)
	for i, v := range m.Values {
		fmt.Fprintf(&b, `,"%s":%.2f`, w.labels[i], v)
	}
	b.WriteString("}\n")

	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return errors.Wrap(errors.ErrEmitRecord, err)
	}

	return nil
}
