package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Predicate decides whether a statement entry stays in the display window.
// Predicates compose by logical AND and only ever select a subset of an
// already-built statement; they never feed back into Build.
type Predicate func(Entry) bool

// Filter applies predicates to a built statement and returns the surviving
// window. Entry order and balances are preserved untouched.
func Filter(entries []Entry, preds ...Predicate) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		keep := true
		for _, p := range preds {
			if p != nil && !p(e) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// DateOp enumerates the supported date filter operators.
type DateOp string

const (
	DateIs         DateOp = "is"
	DateBetween    DateOp = "between"
	DateOnOrBefore DateOp = "on-or-before"
	DateOnOrAfter  DateOp = "on-or-after"
	DateTimespan   DateOp = "timespan"
)

// Timespan keywords accepted by DateTimespan.
const (
	TimespanToday      = "today"
	TimespanYesterday  = "yesterday"
	TimespanLast7Days  = "last 7 days"
	TimespanLast30Days = "last 30 days"
	TimespanThisMonth  = "this month"
	TimespanThisYear   = "this year"
)

// DateFilter narrows a statement by entry date. Comparisons are at day
// granularity and inclusive. Now is overridable for deterministic tests and
// defaults to time.Now.
type DateFilter struct {
	Op       DateOp
	On       time.Time
	From     time.Time
	To       time.Time
	Timespan string
	Now      func() time.Time
}

// Predicate resolves the filter into a Predicate, validating the operator and
// any timespan keyword up front.
func (f DateFilter) Predicate() (Predicate, error) {
	switch f.Op {
	case DateIs:
		day := f.On
		return func(e Entry) bool { return sameDay(e.Date, day) }, nil
	case DateBetween:
		from, to := startOfDay(f.From), endOfDay(f.To)
		return func(e Entry) bool { return !e.Date.Before(from) && !e.Date.After(to) }, nil
	case DateOnOrBefore:
		to := endOfDay(f.On)
		return func(e Entry) bool { return !e.Date.After(to) }, nil
	case DateOnOrAfter:
		from := startOfDay(f.On)
		return func(e Entry) bool { return !e.Date.Before(from) }, nil
	case DateTimespan:
		now := time.Now
		if f.Now != nil {
			now = f.Now
		}
		from, to, err := resolveTimespan(f.Timespan, now())
		if err != nil {
			return nil, err
		}
		return func(e Entry) bool { return !e.Date.Before(from) && !e.Date.After(to) }, nil
	default:
		return nil, fmt.Errorf("ledger: unknown date operator %q", f.Op)
	}
}

func resolveTimespan(keyword string, now time.Time) (time.Time, time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case TimespanToday:
		return startOfDay(now), endOfDay(now), nil
	case TimespanYesterday:
		y := now.AddDate(0, 0, -1)
		return startOfDay(y), endOfDay(y), nil
	case TimespanLast7Days:
		return startOfDay(now.AddDate(0, 0, -6)), endOfDay(now), nil
	case TimespanLast30Days:
		return startOfDay(now.AddDate(0, 0, -29)), endOfDay(now), nil
	case TimespanThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, endOfDay(now), nil
	case TimespanThisYear:
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return first, endOfDay(now), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("ledger: unknown timespan %q", keyword)
	}
}

// DefaultTextThreshold is the maximum Levenshtein rank a fuzzy match may
// carry before it is discarded.
const DefaultTextThreshold = 4

// TextPredicate matches entries whose details, project or type approximately
// contain the query. An exact fold-insensitive substring always matches;
// otherwise a fuzzy rank up to threshold is accepted. An empty query matches
// everything.
func TextPredicate(query string, threshold int) Predicate {
	query = strings.TrimSpace(query)
	if query == "" {
		return func(Entry) bool { return true }
	}
	if threshold <= 0 {
		threshold = DefaultTextThreshold
	}
	match := func(target string) bool {
		if target == "" {
			return false
		}
		if strings.Contains(strings.ToLower(target), strings.ToLower(query)) {
			return true
		}
		rank := fuzzy.RankMatchNormalizedFold(query, target)
		return rank >= 0 && rank <= threshold
	}
	return func(e Entry) bool {
		return match(e.Details) || match(e.Project) || match(string(e.Type))
	}
}

// ProjectPredicate keeps entries whose project is in the given set. An empty
// set matches everything.
func ProjectPredicate(projects []string) Predicate {
	if len(projects) == 0 {
		return func(Entry) bool { return true }
	}
	set := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		set[p] = struct{}{}
	}
	return func(e Entry) bool {
		_, ok := set[e.Project]
		return ok
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
