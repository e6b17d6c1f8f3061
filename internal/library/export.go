// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-forge/pkg/types"
)

// bibtexEntryType maps citation types to BibTeX entry types.
func bibtexEntryType(t types.CitationType) string {
	switch t {
	case types.CitationBook:
		return "book"
	case types.CitationArticle:
		return "article"
	case types.CitationWeb:
		return "misc"
	case types.CitationThesis:
		return "phdthesis"
	case types.CitationReport:
		return "techreport"
	default:
		return "misc"
	}
}

func citationTypeFromBibtex(entry string) types.CitationType {
	switch strings.ToLower(entry) {
	case "book", "inbook", "booklet":
		return types.CitationBook
	case "article", "inproceedings", "incollection", "proceedings":
		return types.CitationArticle
	case "phdthesis", "mastersthesis":
		return types.CitationThesis
	case "techreport", "manual":
		return types.CitationReport
	default:
		return types.CitationWeb
	}
}

// ExportBibTeX writes every library entry as BibTeX to w.
func (s *Store) ExportBibTeX(ctx context.Context, w io.Writer) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, c := range entries {
		fmt.Fprintf(&b, "@%s{%s,\n", bibtexEntryType(c.Type), c.Key)
		fmt.Fprintf(&b, "  title = {%s},\n", c.Title)
		if len(c.Authors) > 0 {
			fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(c.Authors, " and "))
		}
		if c.Year > 0 {
			fmt.Fprintf(&b, "  year = {%d},\n", c.Year)
		}
		if c.Source != "" {
			switch c.Type {
			case types.CitationArticle:
				fmt.Fprintf(&b, "  journal = {%s},\n", c.Source)
			case types.CitationBook:
				fmt.Fprintf(&b, "  publisher = {%s},\n", c.Source)
			case types.CitationThesis:
				fmt.Fprintf(&b, "  school = {%s},\n", c.Source)
			case types.CitationReport:
				fmt.Fprintf(&b, "  institution = {%s},\n", c.Source)
			default:
				fmt.Fprintf(&b, "  howpublished = {%s},\n", c.Source)
			}
		}
		if c.URL != "" {
			fmt.Fprintf(&b, "  url = {%s},\n", c.URL)
		}
		fmt.Fprintf(&b, "}\n\n")
	}
	_, err = io.WriteString(w, b.String())
	return err
}

// ImportBibTeX reads BibTeX entries from r and adds them to the library.
// Entries with duplicate keys are skipped. Returns the number of entries
// imported.
func (s *Store) ImportBibTeX(ctx context.Context, r io.Reader) (int, error) {
	entries, err := parseBibTeX(r)
	if err != nil {
		return 0, err
	}
	imported := 0
	for _, c := range entries {
		if err := s.Add(ctx, c); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				continue
			}
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// parseBibTeX is a minimal line-oriented BibTeX reader. It handles the
// subset ExportBibTeX produces: one field per line with braced values.
func parseBibTeX(r io.Reader) ([]types.Citation, error) {
	var entries []types.Citation
	var cur *types.Citation
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "@"):
			entryType, key, ok := strings.Cut(strings.TrimPrefix(line, "@"), "{")
			if !ok {
				return nil, fmt.Errorf("line %d: malformed entry header", lineNo)
			}
			key = strings.TrimSuffix(strings.TrimSpace(key), ",")
			if key == "" {
				return nil, fmt.Errorf("line %d: entry has no citation key", lineNo)
			}
			cur = &types.Citation{
				Key:  key,
				Type: citationTypeFromBibtex(strings.TrimSpace(entryType)),
			}
		case line == "}":
			if cur != nil {
				entries = append(entries, *cur)
				cur = nil
			}
		case cur != nil && strings.Contains(line, "="):
			name, value, _ := strings.Cut(line, "=")
			name = strings.ToLower(strings.TrimSpace(name))
			value = strings.Trim(strings.TrimSuffix(strings.TrimSpace(value), ","), "{}\"")
			switch name {
			case "title":
				cur.Title = value
			case "author":
				for _, a := range strings.Split(value, " and ") {
					if a = strings.TrimSpace(a); a != "" {
						cur.Authors = append(cur.Authors, a)
					}
				}
			case "year":
				if y, err := strconv.Atoi(value); err == nil {
					cur.Year = y
				}
			case "journal", "publisher", "school", "institution", "howpublished":
				cur.Source = value
			case "url":
				cur.URL = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading BibTeX: %w", err)
	}
	if cur != nil {
		return nil, fmt.Errorf("unterminated entry %q", cur.Key)
	}
	return entries, nil
}

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-YAML schema so output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	URL    string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

func cslType(t types.CitationType) string {
	switch t {
	case types.CitationBook:
		return "book"
	case types.CitationArticle:
		return "article-journal"
	case types.CitationWeb:
		return "webpage"
	case types.CitationThesis:
		return "thesis"
	case types.CitationReport:
		return "report"
	default:
		return "document"
	}
}

// ExportCSL writes every library entry as a CSL-YAML list to w.
func (s *Store) ExportCSL(ctx context.Context, w io.Writer) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	items := make([]CSLItem, len(entries))
	for i, c := range entries {
		items[i] = toCSLItem(c)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(c types.Citation) CSLItem {
	item := CSLItem{
		ID:    c.Key,
		Type:  cslType(c.Type),
		Title: c.Title,
		URL:   c.URL,
	}
	for _, a := range c.Authors {
		item.Author = append(item.Author, toCSLName(a))
	}
	if c.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{c.Year}}}
	}
	return item
}

// toCSLName splits an APA-form author string ("Smith, J.") into family
// and given parts. Names without a comma use the literal field.
func toCSLName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	family, given, ok := strings.Cut(name, ",")
	if !ok {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: strings.TrimSpace(family),
		Given:  strings.TrimSpace(given),
	}
}
