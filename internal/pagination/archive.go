package pagination

import (
	"regexp"
	"sort"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
)

// UndatedKey buckets documents whose date has no usable year and month.
const UndatedKey = "undated"

var yearMonth = regexp.MustCompile(`^\d{4}-\d{2}`)

// MonthGroup holds the documents of one month in input order.
type MonthGroup struct {
	Month string
	Docs  []*docmodel.Document
}

// YearGroup holds the months of one year, newest first.
type YearGroup struct {
	Year   string
	Months []MonthGroup
}

// Archive is the year/month tree of a page of documents. Years and months
// are ordered descending; the undated bucket, if any, comes last.
type Archive struct {
	Years []YearGroup
}

// Len counts the documents in the archive.
func (a Archive) Len() int {
	n := 0
	for _, y := range a.Years {
		for _, m := range y.Months {
			n += len(m.Docs)
		}
	}
	return n
}

// Lookup returns the documents filed under year and month.
func (a Archive) Lookup(year, month string) []*docmodel.Document {
	for _, y := range a.Years {
		if y.Year != year {
			continue
		}
		for _, m := range y.Months {
			if m.Month == month {
				return m.Docs
			}
		}
	}
	return nil
}

// YearMonth splits a document's sort key into year and month. ok is false
// when the key does not start with YYYY-MM.
func YearMonth(d *docmodel.Document) (year, month string, ok bool) {
	key := d.SortKey()
	if !yearMonth.MatchString(key) {
		return "", "", false
	}
	return key[0:4], key[5:7], true
}

// GroupArchive buckets docs by year and month, keeping the input order
// within each month.
func GroupArchive(docs []*docmodel.Document) Archive {
	tree := make(map[string]map[string][]*docmodel.Document)
	var undated []*docmodel.Document

	for _, d := range docs {
		year, month, ok := YearMonth(d)
		if !ok {
			undated = append(undated, d)
			continue
		}
		months, exists := tree[year]
		if !exists {
			months = make(map[string][]*docmodel.Document)
			tree[year] = months
		}
		months[month] = append(months[month], d)
	}

	years := make([]string, 0, len(tree))
	for y := range tree {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	var archive Archive
	for _, y := range years {
		monthKeys := make([]string, 0, len(tree[y]))
		for m := range tree[y] {
			monthKeys = append(monthKeys, m)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(monthKeys)))

		group := YearGroup{Year: y}
		for _, m := range monthKeys {
			group.Months = append(group.Months, MonthGroup{Month: m, Docs: tree[y][m]})
		}
		archive.Years = append(archive.Years, group)
	}
	if len(undated) > 0 {
		archive.Years = append(archive.Years, YearGroup{
			Year:   UndatedKey,
			Months: []MonthGroup{{Month: UndatedKey, Docs: undated}},
		})
	}
	return archive
}
