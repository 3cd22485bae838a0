// Package ingest feeds decoded chain events to the projection engine in
// chain order and resumes from the engine's checkpoint.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

// Source yields decoded events in chain order. Next returns io.EOF after the
// last event.
type Source interface {
	Next(ctx context.Context) (domain.Event, error)
}

// line is one JSON-lines record.
type line struct {
	Type           domain.Type     `json:"type"`
	TxHash         string          `json:"tx_hash"`
	TxIndex        uint32          `json:"tx_index"`
	LogIndex       uint32          `json:"log_index"`
	BlockNumber    uint64          `json:"block_number"`
	BlockTimestamp int64           `json:"block_timestamp"`
	Contract       domain.Address  `json:"contract,omitempty"`
	Payload        json.RawMessage `json:"payload"`
}

// JSONLSource reads one decoded event per line. Blank lines are ignored.
// An event positioned before the previous one fails with CodeOutOfOrder.
type JSONLSource struct {
	reader *bufio.Reader
	lineNo int
	last   domain.Position
	seen   bool
}

// NewJSONLSource reads events from r.
func NewJSONLSource(r io.Reader) *JSONLSource {
	return &JSONLSource{reader: bufio.NewReader(r)}
}

// OpenJSONL opens path for reading, or stdin when path is "-". The returned
// close function is safe to call once.
func OpenJSONL(path string) (*JSONLSource, func() error, error) {
	path = strings.TrimSpace(path)
	switch path {
	case "":
		return nil, nil, fmt.Errorf("events path is required")
	case "-":
		return NewJSONLSource(os.Stdin), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open events file: %w", err)
	}
	return NewJSONLSource(f), f.Close, nil
}

// Next decodes the next event.
func (s *JSONLSource) Next(ctx context.Context) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return domain.Event{}, err
	}
	raw, err := s.readLine()
	if err != nil {
		return domain.Event{}, err
	}

	var rec line
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Event{}, apperrors.Wrap(apperrors.CodeInvalidEnvelope, fmt.Sprintf("decode line %d", s.lineNo), err)
	}
	payload := []byte(rec.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	evt := domain.Event{
		Type: rec.Type,
		Envelope: domain.Envelope{
			TxHash:         rec.TxHash,
			TxIndex:        rec.TxIndex,
			LogIndex:       rec.LogIndex,
			BlockNumber:    rec.BlockNumber,
			BlockTimestamp: rec.BlockTimestamp,
			Contract:       rec.Contract,
		},
		PayloadJSON: payload,
	}

	position := evt.Envelope.Position()
	if s.seen && position.Compare(s.last) < 0 {
		return domain.Event{}, apperrors.WithMetadata(apperrors.CodeOutOfOrder,
			fmt.Sprintf("line %d at %s is before %s", s.lineNo, position, s.last),
			map[string]string{"event_type": string(evt.Type), "tx_hash": evt.Envelope.TxHash},
		)
	}
	s.last = position
	s.seen = true
	return evt, nil
}

func (s *JSONLSource) readLine() ([]byte, error) {
	for {
		raw, err := s.reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read line %d: %w", s.lineNo+1, err)
		}
		if len(raw) == 0 && errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		s.lineNo++
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 {
			return raw, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
	}
}

// SliceSource replays a fixed list of events.
type SliceSource struct {
	events []domain.Event
	next   int
}

// NewSliceSource returns a source over events.
func NewSliceSource(events ...domain.Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next event or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return domain.Event{}, err
	}
	if s.next >= len(s.events) {
		return domain.Event{}, io.EOF
	}
	evt := s.events[s.next]
	s.next++
	return evt, nil
}
