
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hanrei-feeds/internal/models"
)

// ReadURLs reads case page URLs from a CSV (header with "url" or "link") or
// an NDJSON file. NDJSON lines may be bare URLs, {"url": ...} objects, or
// records written by WriteRecords. Duplicates are dropped, first one wins.
func ReadURLs(path string) ([]string, error) {
	var (
		urls []string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		urls, err = readCSV(path)
	case ".ndjson", ".jsonl":
		urls, err = readNDJSON(path)
	default:
		// try csv then ndjson
		if urls, err = readCSV(path); err != nil || len(urls) == 0 {
			urls, err = readNDJSON(path)
		}
	}
	if err != nil {
		return nil, err
	}
	return dedupe(urls), nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, u := range in {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

func readCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	col := -1
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if strings.EqualFold(h, "url") || strings.EqualFold(h, "link") {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, errors.New("csv must contain a 'url' or 'link' header column")
	}
	var out []string
	for _, row := range rows[1:] {
		if col < len(row) {
			u := strings.TrimSpace(row[col])
			if u != "" {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type urlLine struct {
	URL    string `json:"url"`
	Link   string `json:"link"`
	Record *struct {
		Link string `json:"link"`
	} `json:"record"`
}

func (l urlLine) first() string {
	switch {
	case l.URL != "":
		return l.URL
	case l.Link != "":
		return l.Link
	case l.Record != nil:
		return l.Record.Link
	}
	return ""
}

func readNDJSON(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			var obj urlLine
			if err := json.Unmarshal([]byte(line), &obj); err == nil {
				if u := obj.first(); u != "" {
					out = append(out, u)
				}
				continue
			}
		}
		// fallback: treat whole line as url
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no urls found in ndjson")
	}
	return out, nil
}

// WriteRecords writes one JSON object per record to w.
func WriteRecords(w io.Writer, recs []models.ExportRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
