package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/owlview/reviewtree/internal/note/model"
)

// ErrCycleDetected reports that the reply graph contained a cycle. The
// walk stops descending at the repeated node, so the returned document
// still covers every reachable note exactly once.
var ErrCycleDetected = errors.New("reply cycle detected")

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "20060102"
)

// bodyFields render as indented multi-line blocks, scalarFields as
// single bold lines. Order is part of the output contract.
var (
	bodyFields   = []string{"comment", "review", "summary", "response"}
	scalarFields = []string{"rating", "confidence", "strengths", "weaknesses", "questions"}
)

// RenderNote formats one note as Markdown, indented two spaces per
// depth level. When includeReplies is set, the note's advisory inline
// reply list is rendered recursively under a "### Replies:" heading —
// that list is often shallow, so whole-thread rendering goes through
// RenderThread instead.
func RenderNote(note model.Note, includeReplies bool, depth int) string {
	lines := noteLines(note, depth)

	if includeReplies && len(note.DirectReplies) > 0 {
		indent := strings.Repeat("  ", depth)
		lines = append(lines, indent+"### Replies:", "")
		for _, reply := range note.DirectReplies {
			lines = append(lines, RenderNote(reply, true, depth+1))
		}
	}

	indent := strings.Repeat("  ", depth)
	lines = append(lines, indent+"---", "")

	return strings.Join(lines, "\n")
}

// noteLines emits the header, date and content sections of a single
// note, without the reply block or trailing separator.
func noteLines(note model.Note, depth int) []string {
	indent := strings.Repeat("  ", depth)
	lines := make([]string, 0, 8)

	lines = append(lines,
		indent+"## Comment by "+displaySignatures(note.Signatures),
		indent+"**Date:** "+displayDate(note.CDate),
		"",
	)

	content := note.Content
	if len(content) == 0 {
		return lines
	}

	// The root's title duplicates the document heading, so it only
	// renders on nested notes.
	if _, ok := content["title"]; ok && depth > 0 {
		if v := ExtractValue(content["title"]); v != "" {
			lines = append(lines, indent+"**Title:** "+v, "")
		}
	}

	for _, name := range bodyFields {
		raw, ok := content[name]
		if !ok {
			continue
		}
		v := ExtractValue(raw)
		if v == "" {
			continue
		}
		lines = append(lines, indent+"**"+fieldTitle(name)+":**", "")
		for _, line := range strings.Split(v, "\n") {
			lines = append(lines, indent+line)
		}
		lines = append(lines, "")
	}

	for _, name := range scalarFields {
		raw, ok := content[name]
		if !ok {
			continue
		}
		v := ExtractValue(raw)
		if v == "" {
			continue
		}
		lines = append(lines, indent+"**"+fieldTitle(name)+":** "+v, "")
	}

	return lines
}

// BuildReplyIndex maps each note id to its direct replies, ordered by
// ascending creation date (unknown dates sort first). The index is
// built from every note's own parent reference, which is the only
// source that captures nesting at all depths.
func BuildReplyIndex(notes []model.Note) map[string][]model.Note {
	index := make(map[string][]model.Note)
	for _, n := range notes {
		if n.ReplyTo == "" {
			continue
		}
		index[n.ReplyTo] = append(index[n.ReplyTo], n)
	}
	for id := range index {
		children := index[id]
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].CDate < children[j].CDate
		})
	}
	return index
}

// RenderThread formats a whole flat note list as one Markdown document:
// a header with the total count, the root submission, then every
// comment depth-first in creation-date order. If the parent references
// form a cycle the document is still returned, accompanied by
// ErrCycleDetected.
func RenderThread(notes []model.Note, title string) (string, error) {
	lines := []string{
		"# " + title,
		"",
		fmt.Sprintf("**Total Comments:** %d", len(notes)),
		"",
		"---",
		"",
	}

	sorted := append([]model.Note(nil), notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CDate < sorted[j].CDate
	})

	index := BuildReplyIndex(sorted)

	// First parentless note in date order is the submission. More than
	// one root is out of contract; the earliest silently wins.
	var root model.Note
	var haveRoot bool
	for _, n := range sorted {
		if n.IsRoot() {
			root = n
			haveRoot = true
			break
		}
	}

	if haveRoot {
		lines = append(lines,
			"# Main Submission",
			"",
			RenderNote(root, false, 0),
			"",
		)
	}

	lines = append(lines, "# Comments and Reviews", "")

	var topLevel []model.Note
	if haveRoot {
		topLevel = index[root.ID]
	}

	lines, cycle := appendIndexWalk(lines, topLevel, index)

	doc := strings.Join(lines, "\n")
	if cycle {
		return doc, ErrCycleDetected
	}
	return doc, nil
}

type walkFrame struct {
	note      model.Note
	depth     int
	separator bool
}

// appendIndexWalk renders the given top-level notes and all their
// descendants from the reply index, depth-first with an explicit stack
// so deep reply chains cannot exhaust the call stack. A visited set
// guards against cyclic parent references; the second return reports
// whether one was hit.
func appendIndexWalk(lines []string, topLevel []model.Note, index map[string][]model.Note) ([]string, bool) {
	visited := make(map[string]bool)
	cycle := false

	stack := make([]walkFrame, 0, len(topLevel))
	for i := len(topLevel) - 1; i >= 0; i-- {
		stack = append(stack, walkFrame{note: topLevel[i], depth: 0})
	}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		indent := strings.Repeat("  ", frame.depth)

		if frame.separator {
			lines = append(lines, indent+"---", "")
			continue
		}

		if frame.note.ID != "" {
			if visited[frame.note.ID] {
				cycle = true
				continue
			}
			visited[frame.note.ID] = true
		}

		lines = append(lines, noteLines(frame.note, frame.depth)...)

		children := index[frame.note.ID]
		if len(children) > 0 {
			lines = append(lines, indent+"### Replies:", "")
		}

		stack = append(stack, walkFrame{note: frame.note, depth: frame.depth, separator: true})
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{note: children[i], depth: frame.depth + 1})
		}
	}

	return lines, cycle
}

// RenderNoteFile formats one note (with its advisory replies) as a
// standalone document and derives a filesystem-safe filename from its
// date and signatures, e.g. "20210101_Reviewer_ABC.md".
func RenderNoteFile(note model.Note) (string, string) {
	signatures := displaySignatures(note.Signatures)

	dateStr := "unknown"
	if note.CDate != 0 {
		dateStr = time.UnixMilli(note.CDate).Format(dateLayout)
	}

	safe := strings.ReplaceAll(signatures, "/", "_")
	safe = strings.ReplaceAll(safe, " ", "_")
	filename := dateStr + "_" + safe + ".md"

	return RenderNote(note, true, 0), filename
}

func displaySignatures(signatures []string) string {
	if len(signatures) == 0 {
		return "Anonymous"
	}
	return strings.Join(signatures, ", ")
}

func displayDate(cdate int64) string {
	if cdate == 0 {
		return "Unknown date"
	}
	return time.UnixMilli(cdate).Format(timeLayout)
}

func fieldTitle(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	return cases.Title(language.English).String(name)
}
