package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/offercrawl"
)

// domainColumns are CSV header names recognized as holding the domain.
var domainColumns = []string{"domain", "url", "website", "site", "homepage"}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer f.Close()

	var domains []string
	switch strings.ToLower(filepath.Ext(c.File)) {
	case ".ndjson", ".jsonl", ".json":
		domains, err = ReadNDJSONDomains(f)
	default:
		domains, err = ReadCSVDomains(f, c.Column)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	var valid []string
	var invalid int
	seen := make(map[string]bool, len(domains))
	for _, raw := range domains {
		company := &offercrawl.Company{Domain: raw}
		if err := company.Validate(); err != nil {
			invalid++
			continue
		}
		if seen[company.Domain] {
			continue
		}
		seen[company.Domain] = true
		valid = append(valid, company.Domain)
	}
	fmt.Fprintf(deps.Stdout, "Read %d entries: %d unique valid domains, %d invalid\n", len(domains), len(valid), invalid)

	if c.DryRun {
		return nil
	}

	res := addCompanies(quietDeps(deps), valid, "")
	fmt.Fprintf(deps.Stdout, "Imported %d companies (%d existing)\n", res.added, res.existing)
	return res.err
}

// quietDeps returns deps with per-company output discarded.
func quietDeps(deps *Dependencies) *Dependencies {
	d := *deps
	d.Stdout = io.Discard
	return &d
}

// ReadCSVDomains reads domains from CSV. The column is chosen by header name
// or zero-based index; when empty, the first header that names a domain
// column is used. Without such a header the first column is read and the
// first row is treated as data.
func ReadCSVDomains(r io.Reader, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "invalid csv: %v", err)
	}
	if len(rows) == 0 {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "empty csv")
	}

	col, start := 0, 0
	switch {
	case column == "":
		if i := headerIndex(rows[0], domainColumns...); i >= 0 {
			col, start = i, 1
		}
	default:
		if n, err := strconv.Atoi(column); err == nil && n >= 0 {
			col = n
			if headerIndex(rows[0], domainColumns...) >= 0 {
				start = 1
			}
		} else if i := headerIndex(rows[0], column); i >= 0 {
			col, start = i, 1
		} else {
			return nil, offercrawl.Errorf(offercrawl.EINVALID, "column %q not found in csv header", column)
		}
	}

	var out []string
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[col]); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func headerIndex(header []string, names ...string) int {
	for i, h := range header {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

// ReadNDJSONDomains reads one JSON object per line and takes the first of
// the domain, url or website fields. Blank lines are skipped.
func ReadNDJSONDomains(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, offercrawl.Errorf(offercrawl.EINVALID, "line %d: invalid json: %v", line, err)
		}
		for _, key := range domainColumns {
			if v, ok := rec[key].(string); ok && strings.TrimSpace(v) != "" {
				out = append(out, strings.TrimSpace(v))
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, offercrawl.Errorf(offercrawl.EINVALID, "line %d: too long", line+1)
		}
		return nil, err
	}
	return out, nil
}
