// Package debug keeps a bounded, categorized trace of what the editor did. The
// trace is printed on demand, merged across categories in the order it was added.
package debug

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeffwilliams/edcmd/internal/circ"
)

type Log struct {
	entries map[string]*circ.Ring[entry]
	max     int
	seq     uint64
	lock    sync.Mutex

	// Now returns the time stamped on new entries.
	Now func() time.Time
}

type entry struct {
	seq      uint64
	when     time.Time
	category string
	message  string
}

// New returns a Log that keeps the last maxEntries entries of each category.
func New(maxEntries int) *Log {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Log{max: maxEntries, Now: time.Now}
}

func (l *Log) Addf(category, message string, args ...interface{}) {
	l.Add(category, fmt.Sprintf(message, args...))
}

func (l *Log) Add(category, message string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.entries == nil {
		l.entries = make(map[string]*circ.Ring[entry])
	}
	c, ok := l.entries[category]
	if !ok {
		r := circ.New[entry](l.max)
		c = &r
		l.entries[category] = c
	}
	l.seq++
	c.Add(entry{seq: l.seq, when: l.Now(), category: category, message: message})
}

func (l *Log) Categories() []string {
	l.lock.Lock()
	defer l.lock.Unlock()

	c := make([]string, 0, len(l.entries))
	for k := range l.entries {
		c = append(c, k)
	}
	sort.Strings(c)
	return c
}

// String merges the entries of the given categories, or of all categories if
// none are given, into one multi-line log. The oldest entry still held for each
// category is marked <first>.
// Format:
// 12:43:12.123 <category><first> Message
func (l *Log) String(categories ...string) string {
	l.lock.Lock()
	defer l.lock.Unlock()

	if len(categories) == 0 {
		for k := range l.entries {
			categories = append(categories, k)
		}
	}

	var merged []entry
	firsts := map[uint64]bool{}
	for _, cat := range categories {
		c, ok := l.entries[cat]
		if !ok || c.Empty() {
			continue
		}
		firsts[c.At(0).seq] = true
		c.Each(func(e entry) { merged = append(merged, e) })
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].seq < merged[j].seq })

	var sb strings.Builder
	for _, e := range merged {
		s := format(e, firsts[e.seq])
		sb.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func format(e entry, first bool) string {
	f := ""
	if first {
		f = "<first>"
	}
	return fmt.Sprintf("%s <%s>%s %s", e.when.Format("15:04:05.000"), e.category, f, e.message)
}
