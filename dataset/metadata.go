package dataset

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadMetadata takes a slice of bytes with a column specification in YAML and
sets the categorical columns and levels of opts from it, or returns an error.

The YAML is expected to be an object containing a columns property. The value
for this should be an object with a property for each column with its name and
either a string value of 'numeric' or 'continuous' for numeric columns,
'categorical' or 'discrete' for categorical columns whose values are numbered
in order of appearance, or a list of valid values for categorical columns whose
values are numbered in the given order. A list of values given for the class
column fixes the numbering of classes.
*/
func ReadMetadata(md []byte, opts *CSVOptions) error {
	metadata := struct {
		Columns map[string]interface{}
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return errors.Wrap(err, "parsing yaml metadata")
	}
	if metadata.Columns == nil {
		return errors.New("metadata has no column information")
	}
	names := make([]string, 0, len(metadata.Columns))
	for name := range metadata.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch values := metadata.Columns[name].(type) {
		case string:
			switch values {
			case "numeric", "continuous":
			case "categorical", "discrete":
				opts.Categorical = append(opts.Categorical, name)
			default:
				return errors.Errorf("invalid kind %q for column %s", values, name)
			}
		case []interface{}:
			levels := make([]string, 0, len(values))
			for _, v := range values {
				levels = append(levels, fmt.Sprintf("%v", v))
			}
			if opts.Levels == nil {
				opts.Levels = make(map[string][]string)
			}
			opts.Levels[name] = levels
		default:
			return errors.Errorf("invalid column declaration of type %T for column %s", values, name)
		}
	}
	return nil
}
