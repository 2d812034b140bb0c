package card

import (
	"regexp"
	"strconv"
	"strings"
)

var markupTags = []string{"<b>", "</b>", "<i>", "</i>"}

var overloadPattern = regexp.MustCompile(`Overload:.+?\((\d+)\)`)

// CleanText normalizes raw card text for display. The $ and # sentinels and the
// [x] placeholder are removed, and the two-character \n escape becomes a newline.
// With stripTags the bold/italic markers are removed too; without it they are
// kept for callers that render them.
func CleanText(text string, stripTags bool) string {
	if text == "" {
		return ""
	}
	if stripTags {
		for _, tag := range markupTags {
			text = strings.ReplaceAll(text, tag, "")
		}
	}
	text = strings.ReplaceAll(text, "$", "")
	text = strings.ReplaceAll(text, "#", "")
	text = strings.ReplaceAll(text, `\n`, "\n")
	return strings.ReplaceAll(text, "[x]", "")
}

// ParseOverload extracts N from "Overload: (N)" in normalized English text.
// Returns -1 when no match is found.
func ParseOverload(englishText string) int {
	m := overloadPattern.FindStringSubmatch(englishText)
	if len(m) != 2 {
		return -1
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return v
}

// alternativeText joins parallel name/text entries as
// "[name]\ntext\n" blocks separated by "-\n".
func alternativeText(names, texts []string, formatted bool) string {
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("-\n")
		}
		b.WriteString("[" + name + "]\n")
		if i < len(texts) && texts[i] != "" {
			b.WriteString(CleanText(texts[i], !formatted))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}

func fileName(name string) string {
	r := strings.NewReplacer(" ", "-", ":", "", "'", "-", ".", "", "!", "", ",", "")
	return r.Replace(strings.ToLower(name))
}
