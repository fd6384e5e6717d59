package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

/*
CSVOptions configures ReadCSV. Categorical lists the names of the columns
whose values are to be taken as unordered labels; every other feature column
must hold numbers. Seed seeds the random source of the resulting dataset.

Levels optionally fixes, by column name, the values a categorical column or
the class column may hold, numbering them in the given order. Values outside
the levels of a column are rejected.
*/
type CSVOptions struct {
	Name        string
	Categorical []string
	Levels      map[string][]string
	Seed        int64
}

/*
ReadCSV takes an io.Reader for a CSV stream and CSVOptions and returns a
Dataset with the parsed rows, along with the class labels indexed by class
number, or an error.

The first row of the stream is expected to be a header with the column names.
The last column holds the class label of each row. Labels, like the values of
categorical columns, are numbered in order of first appearance unless levels
were given for the column.
*/
func ReadCSV(reader io.Reader, opts CSVOptions) (Dataset, []string, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading header")
	}
	if len(header) < 2 {
		return nil, nil, errors.Errorf("header has %d columns, expected at least a feature and a class", len(header))
	}
	categorical := make(map[string]bool)
	for _, name := range opts.Categorical {
		categorical[name] = true
	}
	columns := make([]Column, len(header)-1)
	columnLabels := make([]*labels, len(header)-1)
	for i, name := range header[:len(header)-1] {
		columns[i] = Column{Name: name}
		if categorical[name] || opts.Levels[name] != nil {
			columns[i].Kind = Categorical
			columnLabels[i] = newLabels(opts.Levels[name])
			if columnLabels[i].fixed {
				columns[i].Levels = len(columnLabels[i].names)
			}
		}
	}
	classLabels := newLabels(opts.Levels[header[len(header)-1]])
	var classes []int
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading body")
		}
		for i := range columns {
			v, err := parseValue(row[i], columnLabels[i])
			if err != nil {
				return nil, nil, errors.Wrapf(err, "parsing line %d, column %s", l, columns[i].Name)
			}
			columns[i].Values = append(columns[i].Values, v)
		}
		id, err := classLabels.id(row[len(row)-1])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parsing line %d, class", l)
		}
		classes = append(classes, id)
	}
	if len(classes) == 0 {
		return nil, nil, errors.New("no rows after header")
	}
	ds, err := New(opts.Name, columns, classes, len(classLabels.names), opts.Seed)
	if err != nil {
		return nil, nil, err
	}
	return ds, classLabels.names, nil
}

func parseValue(s string, l *labels) (float64, error) {
	if l == nil {
		return strconv.ParseFloat(s, 64)
	}
	id, err := l.id(s)
	return float64(id), err
}

// labels numbers the values of a categorical column. When fixed, only the
// values it was created with are accepted.
type labels struct {
	ids   map[string]int
	names []string
	fixed bool
}

func newLabels(levels []string) *labels {
	l := &labels{ids: make(map[string]int), fixed: levels != nil}
	for _, v := range levels {
		if _, ok := l.ids[v]; !ok {
			l.ids[v] = len(l.names)
			l.names = append(l.names, v)
		}
	}
	return l
}

func (l *labels) id(v string) (int, error) {
	id, ok := l.ids[v]
	if ok {
		return id, nil
	}
	if l.fixed {
		return 0, errors.Errorf("value %q is not one of %v", v, l.names)
	}
	id = len(l.names)
	l.ids[v] = id
	l.names = append(l.names, v)
	return id, nil
}
