package datasource

// Record is a single content definition as parsed from YAML.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// With returns a copy of the record with key set to value.
func (r Record) With(key string, value any) Record {
	out := r.Clone()
	out[key] = value
	return out
}

// DataSource is every record found under one top-level key of one file.
type DataSource struct {
	// Name is the top-level key, e.g. "house" or "fighter".
	Name string
	// Origin is the file path or object key the payload came from.
	Origin string
	// Payload holds the records in document order.
	Payload []Record
}

// FileError reports a file that could not be parsed.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Set is the result of loading a ruleset.
type Set struct {
	// Sources are ordered by file discovery, then by key order within a file.
	Sources []DataSource
	// Failures lists files that were skipped because they could not be parsed.
	Failures []FileError
	// Warnings are non-fatal problems, such as a missing directory.
	Warnings []string
}

// DataFor concatenates the payloads of every source with the given name,
// preserving discovery order.
func (s *Set) DataFor(name string) []Record {
	var out []Record
	for _, src := range s.Sources {
		if src.Name == name {
			out = append(out, src.Payload...)
		}
	}
	return out
}

// Names returns the distinct source names in first-seen order.
func (s *Set) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, src := range s.Sources {
		if _, ok := seen[src.Name]; ok {
			continue
		}
		seen[src.Name] = struct{}{}
		names = append(names, src.Name)
	}
	return names
}
