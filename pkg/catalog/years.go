package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YearSet is an immutable set of year tokens such as "2023".
type YearSet struct {
	m map[string]struct{}
}

// NormalizeYears splits every value on commas, trims each token and drops
// empty ones. A scalar year, a delimited string and a list of years all end up
// in the same set. A span such as "2020-2025" expands to every year in it.
func NormalizeYears(values ...string) YearSet {
	set := YearSet{m: make(map[string]struct{})}
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if from, to, ok := yearSpan(tok); ok {
				for y := from; y <= to; y++ {
					set.m[strconv.Itoa(y)] = struct{}{}
				}
				continue
			}
			set.m[tok] = struct{}{}
		}
	}
	return set
}

const maxSpan = 200

func yearSpan(tok string) (int, int, bool) {
	lo, hi, found := strings.Cut(tok, "-")
	if !found {
		return 0, 0, false
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	if len(lo) != 4 || len(hi) != 4 {
		return 0, 0, false
	}
	from, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, false
	}
	to, err := strconv.Atoi(hi)
	if err != nil || to < from || to-from > maxSpan {
		return 0, 0, false
	}
	return from, to, true
}

func (s YearSet) Contains(year string) bool {
	_, ok := s.m[year]
	return ok
}

func (s YearSet) Len() int { return len(s.m) }

// Sorted returns the years in ascending order.
func (s YearSet) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for y := range s.m {
		out = append(out, y)
	}
	SortYears(out)
	return out
}

// Union returns a new set holding the years of both sets.
func (s YearSet) Union(other YearSet) YearSet {
	out := YearSet{m: make(map[string]struct{}, len(s.m)+len(other.m))}
	for y := range s.m {
		out.m[y] = struct{}{}
	}
	for y := range other.m {
		out.m[y] = struct{}{}
	}
	return out
}

func (s YearSet) String() string { return strings.Join(s.Sorted(), ", ") }

func (s YearSet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Sorted()) }

// SortYears orders tokens by numeric value, falling back to plain string order
// for tokens that are not integers or compare equal.
func SortYears(years []string) {
	sort.SliceStable(years, func(i, j int) bool {
		a, aerr := strconv.Atoi(years[i])
		b, berr := strconv.Atoi(years[j])
		if aerr == nil && berr == nil && a != b {
			return a < b
		}
		return years[i] < years[j]
	})
}

// Years is the raw year field of a record before normalization. It decodes
// from a number, a string ("2021, 2022") or a list of either.
type Years []string

func (y Years) Set() YearSet { return NormalizeYears(y...) }

func (y *Years) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	vals, err := yearValues(raw)
	if err != nil {
		return err
	}
	*y = vals
	return nil
}

func (y *Years) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*y = Years{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make(Years, 0, len(value.Content))
		for _, n := range value.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: year list entries must be scalars", n.Line)
			}
			out = append(out, n.Value)
		}
		*y = out
		return nil
	}
	return fmt.Errorf("line %d: unsupported years value", value.Line)
}

// YearsOf converts a decoded JSON or YAML value into raw year tokens.
func YearsOf(v interface{}) (Years, error) { return yearValues(v) }

func yearValues(v interface{}) (Years, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return Years{t}, nil
	case float64:
		return Years{strconv.FormatFloat(t, 'f', -1, 64)}, nil
	case int:
		return Years{strconv.Itoa(t)}, nil
	case []string:
		return Years(t), nil
	case []interface{}:
		out := make(Years, 0, len(t))
		for _, item := range t {
			vals, err := yearValues(item)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported years value of type %T", v)
}
