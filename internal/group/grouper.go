package group

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/mstepanek/rollcall/internal/model"
)

// TraceFunc receives grouping diagnostics. Nil disables tracing.
type TraceFunc func(format string, args ...any)

// dependentRelationships are exact relationship values marking a record as a
// dependent during grouping.
var dependentRelationships = []string{
	"spouse", "child", "son", "daughter", "wife", "husband", "dependent",
}

// dependentSubstrings extend the exact set to composed values such as
// "Dependent Child" or "spouse of employee".
var dependentSubstrings = []string{"spouse", "child", "dependent"}

// Grouper assigns family-group ids: employees get fresh ids in document
// order, dependents are linked to the closest matching preceding employee.
type Grouper struct {
	window int
	trace  TraceFunc
}

// NewGrouper creates a grouper. window is the maximum row distance between a
// dependent and its employee; trace may be nil.
func NewGrouper(window int, trace TraceFunc) *Grouper {
	if window <= 0 {
		window = 5
	}
	return &Grouper{window: window, trace: trace}
}

type anchor struct {
	key      model.RowKey
	lastName string
	id       int
}

// Group returns the records with family-group ids assigned, ordered so each
// employee is followed by its dependents. Input order does not matter; the
// grouper re-sorts by source position first. Group ids are assigned in
// employee first-encounter order, so the result is deterministic for a given
// record set.
//
// A dependent is linked to an employee on the same sheet at a strictly
// earlier row within the window: an employee with the same last name wins,
// closest first; otherwise the closest employee regardless of name. Distance
// ties go to the earliest row. Dependents with no qualifying employee become
// singleton families appended at the end.
func (g *Grouper) Group(records []model.Record) []model.Record {
	if len(records) == 0 {
		return records
	}

	ordered := make([]model.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Key.Before(ordered[j].Key)
	})

	grouped := make([]model.Record, 0, len(ordered))
	var anchors []anchor
	nextID := 1

	// Pass 1: employees claim ids in document order.
	for _, rec := range ordered {
		if isDependentRelationship(rec.Get(model.FieldRelationship)) {
			continue
		}
		rec.FamilyGroup = nextID
		anchors = append(anchors, anchor{
			key:      rec.Key,
			lastName: strings.ToLower(strings.TrimSpace(rec.Get(model.FieldLastName))),
			id:       nextID,
		})
		grouped = append(grouped, rec)
		g.tracef("employee %s %s: family group %d (row %d)",
			rec.Get(model.FieldFirstName), rec.Get(model.FieldLastName), nextID, rec.Key.Row)
		nextID++
	}

	// Pass 2: dependents link to anchors.
	for _, rec := range ordered {
		if !isDependentRelationship(rec.Get(model.FieldRelationship)) {
			continue
		}

		chosen, byName := g.match(anchors, rec)
		if chosen == nil {
			rec.FamilyGroup = nextID
			nextID++
			grouped = append(grouped, rec)
			g.tracef("unmatched dependent %s %s: singleton family group %d",
				rec.Get(model.FieldFirstName), rec.Get(model.FieldLastName), rec.FamilyGroup)
			continue
		}

		rec = rec.Clone()
		rec.FamilyGroup = chosen.id
		rec.Set(model.FieldDependentOfRow, strconv.Itoa(chosen.key.Row))
		grouped = slices.Insert(grouped, insertPos(grouped, chosen), rec)
		g.tracef("dependent %s %s: joined family group %d (%s)",
			rec.Get(model.FieldFirstName), rec.Get(model.FieldLastName), chosen.id,
			matchKind(byName))
	}

	return grouped
}

// match picks the anchor for a dependent. Anchors are scanned in document
// order and a strictly smaller distance is required to displace an earlier
// candidate, which makes distance ties resolve to the earliest row.
func (g *Grouper) match(anchors []anchor, rec model.Record) (*anchor, bool) {
	depLast := strings.ToLower(strings.TrimSpace(rec.Get(model.FieldLastName)))

	var byName, byProximity *anchor
	nameDist, proxDist := g.window+1, g.window+1

	for i := range anchors {
		a := &anchors[i]
		if a.key.Sheet != rec.Key.Sheet || a.key.Row >= rec.Key.Row {
			continue
		}
		dist := rec.Key.Row - a.key.Row
		if dist > g.window {
			continue
		}
		if a.lastName == depLast {
			if dist < nameDist {
				byName, nameDist = a, dist
			}
		} else if dist < proxDist {
			byProximity, proxDist = a, dist
		}
	}

	if byName != nil {
		return byName, true
	}
	return byProximity, false
}

// insertPos places a dependent immediately after its employee and any
// already-placed members of the same family, keeping families contiguous.
func insertPos(grouped []model.Record, chosen *anchor) int {
	pos := -1
	for i := range grouped {
		if grouped[i].Key == chosen.key && grouped[i].FamilyGroup == chosen.id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return len(grouped)
	}
	pos++
	for pos < len(grouped) && grouped[pos].FamilyGroup == chosen.id {
		pos++
	}
	return pos
}

func isDependentRelationship(rel string) bool {
	rel = strings.ToLower(strings.TrimSpace(rel))
	if rel == "" {
		return false
	}
	for _, r := range dependentRelationships {
		if rel == r {
			return true
		}
	}
	for _, sub := range dependentSubstrings {
		if strings.Contains(rel, sub) {
			return true
		}
	}
	return false
}

func matchKind(byName bool) string {
	if byName {
		return "last name"
	}
	return "proximity"
}

func (g *Grouper) tracef(format string, args ...any) {
	if g.trace != nil {
		g.trace(format, args...)
	}
}
