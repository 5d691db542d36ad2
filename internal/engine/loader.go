package engine

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
)

// --- FAST BYTE-LEVEL PARSERS ---

// parseInt parses "2022" -> 2022. Digits only; anything else returns -1.
func parseInt(b []byte) int {
	if len(b) == 0 {
		return -1
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// parseFloat parses "1.43" / "-0.5" without an allocation.
func parseFloat(b []byte) (float64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	neg := false
	if b[0] == '-' {
		neg = true
		b = b[1:]
		if len(b) == 0 {
			return 0, false
		}
	}
	var num float64
	i := 0
	for i < len(b) && b[i] != '.' {
		c := b[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		num = num*10 + float64(c-'0')
		i++
	}
	if i < len(b) {
		i++
		div := 10.0
		for i < len(b) {
			c := b[i]
			if c < '0' || c > '9' {
				return 0, false
			}
			num += float64(c-'0') / div
			div *= 10
			i++
		}
	}
	if neg {
		num = -num
	}
	return num, true
}

// --- OBSERVATION CSV LOADER ---

// Expected columns: geo,year,sector,unit,value,flag
// The value column uses the Eurostat ":" token for missing observations;
// the flag column may be empty or absent.

var comma = []byte{','}

// Load reads one observation CSV into a Table.
func Load(path string) (Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "engine: read %s", path)
	}
	t, err := Parse(content)
	if err != nil {
		return nil, eris.Wrapf(err, "engine: parse %s", path)
	}
	return t, nil
}

// Parse decodes observation CSV content. Malformed rows are load-time
// errors: the shipped datasets are closed, so a bad row means a bad file,
// and a partial table must never reach the engine.
func Parse(content []byte) (Table, error) {
	// Skip the header row.
	if idx := bytes.IndexByte(content, '\n'); idx != -1 {
		content = content[idx+1:]
	}

	table := make(Table, 0, bytes.Count(content, []byte{'\n'})+1)
	lineNo := 1

	for len(content) > 0 {
		lineNo++
		var line []byte
		if idx := bytes.IndexByte(content, '\n'); idx != -1 {
			line = content[:idx]
			content = content[idx+1:]
		} else {
			line = content
			content = nil
		}
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}

		var field, rest []byte
		rest = line

		// geo
		field, rest, _ = bytes.Cut(rest, comma)
		o := Observation{EntityCode: string(bytes.TrimSpace(field))}
		if o.EntityCode == "" {
			return nil, eris.Errorf("line %d: empty geo code", lineNo)
		}

		// year
		field, rest, _ = bytes.Cut(rest, comma)
		if o.Year = parseInt(bytes.TrimSpace(field)); o.Year <= 0 {
			return nil, eris.Errorf("line %d: bad year %q", lineNo, field)
		}

		// sector
		field, rest, _ = bytes.Cut(rest, comma)
		sector, ok := ParseSector(string(field))
		if !ok {
			return nil, eris.Errorf("line %d: unknown sector %q", lineNo, field)
		}
		o.Sector = sector

		// unit
		field, rest, _ = bytes.Cut(rest, comma)
		unit, ok := ParseUnit(string(field))
		if !ok {
			return nil, eris.Errorf("line %d: unknown unit %q", lineNo, field)
		}
		o.Unit = unit

		// value (":" or empty means missing — kept distinct from zero)
		field, rest, _ = bytes.Cut(rest, comma)
		raw := bytes.TrimSpace(field)
		if len(raw) > 0 && !bytes.Equal(raw, []byte{':'}) {
			v, ok := parseFloat(raw)
			if !ok {
				return nil, eris.Errorf("line %d: bad value %q", lineNo, raw)
			}
			o.Value = v
			o.HasValue = true
		}

		// flag (optional trailing column)
		o.Flag = string(bytes.TrimSpace(rest))

		table = append(table, o)
	}
	return table, nil
}

// LoadAll concatenates several observation CSVs into one table, preserving
// file order. Source order matters: it is the documented tie-break for
// duplicate rows.
func LoadAll(paths ...string) (Table, error) {
	var out Table
	for _, p := range paths {
		t, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t...)
	}
	return out, nil
}
