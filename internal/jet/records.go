package jet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNoRecords = errors.New("no records")
	ErrField     = errors.New("invalid record field")
)

// Record is one decoded JSON object. Image fields hold flat or nested
// numeric arrays.
type Record map[string]any

// ReadRecords decodes a JSON array of objects.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// WriteRecords encodes records as a JSON array.
func WriteRecords(w io.Writer, records []Record) error {
	if err := json.NewEncoder(w).Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// Float returns a numeric field.
func (r Record) Float(field string) (float64, error) {
	v, ok := r[field]
	if !ok {
		return 0, fmt.Errorf("%w: %q missing", ErrField, field)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %q is %T, not a number", ErrField, field, v)
	}
	return f, nil
}

// Floats returns a numeric array field flattened in row-major order.
func (r Record) Floats(field string) ([]float64, error) {
	v, ok := r[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q missing", ErrField, field)
	}
	flat, err := flatten(v, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrField, field, err)
	}
	return flat, nil
}

// Image returns a square image field.
func (r Record) Image(field string) (*Image, error) {
	flat, err := r.Floats(field)
	if err != nil {
		return nil, err
	}
	return FromFlat(flat)
}

// SetImage stores img as a flat array under field.
func (r Record) SetImage(field string, img *Image) {
	r[field] = append([]float64(nil), img.Pix...)
}

func flatten(v any, dst []float64) ([]float64, error) {
	switch t := v.(type) {
	case float64:
		return append(dst, t), nil
	case []float64:
		return append(dst, t...), nil
	case [][]float64:
		for _, row := range t {
			dst = append(dst, row...)
		}
		return dst, nil
	case *Image:
		return append(dst, t.Pix...), nil
	case []any:
		var err error
		for _, e := range t {
			if dst, err = flatten(e, dst); err != nil {
				return nil, err
			}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
