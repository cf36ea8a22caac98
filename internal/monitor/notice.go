package monitor

import (
	"fmt"
	"strings"

	"github.com/nhle/mailnest/internal/model"
)

// NoticeKind selects how a Notice is styled.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSummary
	NoticeError
)

// Notice is a dismissible message raised by the monitor. The zero value
// means there is nothing to show.
type Notice struct {
	Kind  NoticeKind
	Title string
	Body  string
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool {
	return n.Kind == NoticeNone
}

// ErrorNotice builds the notice for a failed request.
func ErrorNotice(err error) Notice {
	if err == nil {
		return Notice{}
	}
	return Notice{Kind: NoticeError, Title: "⚠️ Error", Body: Message(err)}
}

func completionNotice(e model.CompletionEvent) Notice {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Total: %d e-mails\n", e.TotalProcessed)
	fmt.Fprintf(&b, "📁 Categories: %d\n", len(e.CategoryCounts))

	if len(e.CategoryCounts) > 0 {
		b.WriteString("\nDistribution:\n")
		sum := model.Summary{Categories: e.CategoryCounts}
		for _, name := range sum.SortedCategories() {
			fmt.Fprintf(&b, "  • %s: %d e-mails\n", name, e.CategoryCounts[name])
		}
	}

	if e.DuplicatesRemoved > 0 {
		fmt.Fprintf(&b, "\n🗑️ Duplicates removed: %d\n", e.DuplicatesRemoved)
	}

	return Notice{
		Kind:  NoticeSummary,
		Title: "✅ Organisation complete!",
		Body:  strings.TrimRight(b.String(), "\n"),
	}
}

func duplicatesNotice(e model.DuplicatesEvent) Notice {
	return Notice{
		Kind:  NoticeSummary,
		Title: "✅ Scan complete!",
		Body:  fmt.Sprintf("🗑️ %d duplicates removed.", e.Removed),
	}
}

func failureNotice(e model.FailureEvent) Notice {
	return Notice{Kind: NoticeError, Title: "⚠️ Error", Body: e.Message}
}
