package pipeline

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cartoviz/micromap/pkg/dataset"
	"github.com/cartoviz/micromap/pkg/errors"
	"github.com/cartoviz/micromap/pkg/geo"
)

// LoadDataset reads a CSV dataset from disk.
func LoadDataset(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening dataset %s", path)
	}
	defer f.Close()
	return dataset.FromCSV(f)
}

// LoadGeometry reads a polygon-part table from CSV with a header row and two
// columns: region id, part id. Multi-part regions repeat the region id once
// per part; a region's rows need not be contiguous. Regions are registered
// in first-appearance order with their parts grouped together, so draw
// indices follow that grouping rather than raw file order when multi-part
// rows are interleaved.
func LoadGeometry(path string) (geo.PartProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening geometry %s", path)
	}
	defer f.Close()
	return GeometryFromCSV(f)
}

// GeometryFromCSV parses the same part table from an in-memory reader.
func GeometryFromCSV(r io.Reader) (geo.PartProvider, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading geometry header")
	}

	provider := geo.NewMemoryProvider()
	// Parts must be registered per region in one Add call, so collect them
	// first while preserving draw order.
	type entry struct {
		region string
		parts  []string
	}
	var order []*entry
	byRegion := make(map[string]*entry)

	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading geometry row %d", row)
		}
		if len(rec) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"geometry row %d has %d fields, want 2", row, len(rec))
		}
		e, ok := byRegion[rec[0]]
		if !ok {
			e = &entry{region: rec[0]}
			byRegion[rec[0]] = e
			order = append(order, e)
		}
		e.parts = append(e.parts, rec[1])
	}

	for _, e := range order {
		provider.Add(e.region, e.parts...)
	}
	return provider, nil
}

// SyntheticGeometry builds a single-part-per-region provider from the
// dataset's id column, for displays that have no real polygon data yet.
func SyntheticGeometry(ds *dataset.Dataset, idVar string) (geo.PartProvider, error) {
	ids, err := ds.Strings(idVar)
	if err != nil {
		return nil, err
	}
	provider := geo.NewMemoryProvider()
	for _, id := range ids {
		provider.Add(id)
	}
	return provider, nil
}
