package jet

import "fmt"

// Mean returns the element-wise arithmetic mean of field across records.
func Mean(records []Record, field string) (*Image, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	var sum *Image
	for i, rec := range records {
		img, err := rec.Image(field)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if sum == nil {
			sum = NewImage(img.Dim)
		}
		if img.Dim != sum.Dim {
			return nil, fmt.Errorf("record %d: %w: %dx%d, want %dx%d", i, ErrShape, img.Dim, img.Dim, sum.Dim, sum.Dim)
		}
		for j, v := range img.Pix {
			sum.Pix[j] += v
		}
	}

	n := float64(len(records))
	for j := range sum.Pix {
		sum.Pix[j] /= n
	}
	return sum, nil
}
