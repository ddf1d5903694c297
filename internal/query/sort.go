package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/straye-as/pipeline-api/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names a client field that the table can be sorted by
type SortKey string

const (
	SortByNone             SortKey = ""
	SortByName             SortKey = "name"
	SortByContactPerson    SortKey = "contactPerson"
	SortByEmail            SortKey = "email"
	SortByPhone            SortKey = "phone"
	SortByStage            SortKey = "stage"
	SortByProposalStatus   SortKey = "proposalStatus"
	SortByPriority         SortKey = "priority"
	SortByProjectValue     SortKey = "projectValue"
	SortByValueNumeric     SortKey = "valueNumeric"
	SortByDaysInPipeline   SortKey = "daysInPipeline"
	SortByFirstContactDate SortKey = "firstContactDate"
	SortByLastFollowup     SortKey = "lastFollowup"
	SortByNextFollowup     SortKey = "nextFollowup"
	SortByNotes            SortKey = "notes"
)

var sortKeys = []SortKey{
	SortByName, SortByContactPerson, SortByEmail, SortByPhone, SortByStage,
	SortByProposalStatus, SortByPriority, SortByProjectValue, SortByValueNumeric,
	SortByDaysInPipeline, SortByFirstContactDate, SortByLastFollowup,
	SortByNextFollowup, SortByNotes,
}

// ParseSortKey resolves a sort key case-insensitively. The empty string is SortByNone.
func ParseSortKey(s string) (SortKey, bool) {
	if s == "" {
		return SortByNone, true
	}
	for _, k := range sortKeys {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return SortByNone, false
}

// IsNumeric reports whether the key compares numerically
func (k SortKey) IsNumeric() bool {
	return k == SortByValueNumeric || k == SortByDaysInPipeline
}

func (k SortKey) stringValue(c *domain.Client) string {
	switch k {
	case SortByName:
		return c.Name
	case SortByContactPerson:
		return c.ContactPerson
	case SortByEmail:
		return c.Email
	case SortByPhone:
		return c.Phone
	case SortByStage:
		return string(c.Stage)
	case SortByProposalStatus:
		return string(c.ProposalStatus)
	case SortByPriority:
		return string(c.Priority)
	case SortByProjectValue:
		return c.ProjectValue
	case SortByFirstContactDate:
		return c.FirstContactDate
	case SortByLastFollowup:
		return c.LastFollowup
	case SortByNextFollowup:
		return c.NextFollowup
	case SortByNotes:
		return c.Notes
	}
	return ""
}

func (k SortKey) numericValue(c *domain.Client) float64 {
	if k == SortByDaysInPipeline {
		return float64(c.DaysInPipeline)
	}
	return c.ValueNumeric
}

// Direction is the order of a sort
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection resolves "asc"/"desc"; anything else is ascending
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Descending)) {
		return Descending
	}
	return Ascending
}

// Sort is the single active sort of the client table
type Sort struct {
	Key       SortKey
	Direction Direction
}

// Toggle returns the sort after selecting key: the same key flips direction,
// a different key starts ascending.
func (s Sort) Toggle(key SortKey) Sort {
	if s.Key == key && s.Direction != Descending {
		return Sort{Key: key, Direction: Descending}
	}
	return Sort{Key: key, Direction: Ascending}
}

// SortClients returns a sorted copy of clients. Equal elements keep their relative
// order and SortByNone returns the input order.
func SortClients(clients []domain.Client, s Sort) []domain.Client {
	out := slices.Clone(clients)
	if s.Key == SortByNone {
		return out
	}

	var compare func(a, b *domain.Client) int
	if s.Key.IsNumeric() {
		compare = func(a, b *domain.Client) int {
			return cmp.Compare(s.Key.numericValue(a), s.Key.numericValue(b))
		}
	} else {
		// collators keep internal buffers and must not be shared between goroutines
		col := collate.New(language.English)
		compare = func(a, b *domain.Client) int {
			return col.CompareString(s.Key.stringValue(a), s.Key.stringValue(b))
		}
	}

	desc := s.Direction == Descending
	slices.SortStableFunc(out, func(a, b domain.Client) int {
		if desc {
			return compare(&b, &a)
		}
		return compare(&a, &b)
	})
	return out
}

// View is a filter plus a sort, evaluated against a repository snapshot
type View struct {
	Filter Filter
	Sort   Sort
}

// Run filters then sorts clients
func (v View) Run(clients []domain.Client) []domain.Client {
	return SortClients(Apply(clients, v.Filter), v.Sort)
}
