package frame

import (
	"bufio"
	"io"

	"github.com/LukaszMeyer/pms5003/internal/errors"
)

// RejectReason classifies why a fully read frame was discarded.
type RejectReason string

const (
	RejectLength   RejectReason = "length"
	RejectChecksum RejectReason = "checksum"
)

// Observer receives link-quality events from a Scanner. Rejected frames and
// discarded bytes are expected noise on a physical link and are never
// surfaced as errors, so counting them here is the only way to see them.
type Observer interface {
	FrameDecoded()
	FrameRejected(reason RejectReason)
	BytesDiscarded(n int)
}

type nopObserver struct{}

func (nopObserver) FrameDecoded()              {}
func (nopObserver) FrameRejected(RejectReason) {}
func (nopObserver) BytesDiscarded(int)         {}

// Scanner reads a raw sensor byte stream and yields decoded measurements.
// It owns resynchronization: stray bytes before a marker and frames failing
// validation are consumed silently and scanning continues.
type Scanner struct {
	br      *bufio.Reader
	variant Variant
	obs     Observer
	body    [BodyBytes]byte
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithObserver attaches a link-quality observer.
func WithObserver(obs Observer) Option {
	return func(s *Scanner) {
		if obs != nil {
			s.obs = obs
		}
	}
}

// NewScanner wraps a blocking byte source. The Scanner never closes it.
func NewScanner(r io.Reader, variant Variant, opts ...Option) *Scanner {
	s := &Scanner{
		br:      bufio.NewReaderSize(r, BodyBytes*2),
		variant: variant,
		obs:     nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Next blocks until the next valid frame arrives and returns its decoded
// measurement. The only error condition is a transport read failure, which
// is fatal to the stream: resynchronization handles everything else.
func (s *Scanner) Next() (Measurement, error) {
	for {
		if err := s.sync(); err != nil {
			return Measurement{}, err
		}

		if _, err := io.ReadFull(s.br, s.body[:]); err != nil {
			return Measurement{}, errors.Wrap(errors.ErrTransportRead, err)
		}

		// The marker bytes may have been a coincidence (they can occur
		// inside field data, including the checksum), so the frame is
		// only trusted after both checks pass. On failure scanning
		// resumes at the byte after the presumed frame.
		ok, reason := validBody(s.body[:])
		if !ok {
			s.obs.FrameRejected(reason)
			continue
		}

		s.obs.FrameDecoded()

		return decode(s.body[:], s.variant), nil
	}
}

// sync consumes bytes until the two-byte frame marker has been read. A byte
// that fails either marker position is discarded and scanning restarts at
// the byte that follows it.
func (s *Scanner) sync() error {
	discarded := 0
	for {
		b, err := s.br.ReadByte()
		if err != nil {
			return errors.Wrap(errors.ErrTransportRead, err)
		}
		if b != marker0 {
			discarded++
			continue
		}

		b, err = s.br.ReadByte()
		if err != nil {
			return errors.Wrap(errors.ErrTransportRead, err)
		}
		if b != marker1 {
			discarded += 2
			continue
		}

		if discarded > 0 {
			s.obs.BytesDiscarded(discarded)
		}

		return nil
	}
}
