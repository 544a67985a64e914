// (c) Copyright phpguard's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	_ "embed" // use go embed to import template
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/gookit/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/issue"
)

const (
	ruleWidth = 80
	wrapWidth = 76
	indent    = "   "
)

//go:embed template.txt
var templateContent string

type count struct {
	Name  string
	Count int
}

// view is the data rendered by the template.
type view struct {
	*phpguard.ReportInfo
	Total      int
	Severities []count
	Types      []count
}

func newView(data *phpguard.ReportInfo) view {
	summary := data.Summary()
	v := view{ReportInfo: data, Total: summary.Total}
	for _, sev := range issue.Severities {
		name := sev.String()
		if n := summary.BySeverity[name]; n > 0 {
			v.Severities = append(v.Severities, count{Name: name, Count: n})
		}
	}
	seen := map[string]int{}
	for _, i := range data.Issues {
		idx, ok := seen[i.Type]
		if !ok {
			idx = len(v.Types)
			seen[i.Type] = idx
			v.Types = append(v.Types, count{Name: i.Type})
		}
		v.Types[idx].Count++
	}
	return v
}

// WriteReport write a (colorized) report in text format
func WriteReport(w io.Writer, data *phpguard.ReportInfo, enableColor bool) error {
	t, e := template.
		New("phpguard").
		Funcs(plainTextFuncMap(enableColor)).
		Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, newView(data))
}

func plainTextFuncMap(enableColor bool) template.FuncMap {
	caser := cases.Title(language.English)
	funcs := template.FuncMap{
		"title":  caser.String,
		"inc":    func(i int) int { return i + 1 },
		"rule":   func() string { return strings.Repeat("-", ruleWidth) },
		"indent": indentBlock,
		"wrap":   func(s string) string { return wrap(s, wrapWidth) },
	}
	if enableColor {
		funcs["bold"] = color.OpBold.Render
		funcs["severity"] = highlight
		funcs["danger"] = color.Danger.Render
		funcs["notice"] = color.Notice.Render
		funcs["success"] = color.Success.Render
		return funcs
	}

	// by default those functions return the given content untouched
	funcs["bold"] = fmt.Sprint
	funcs["severity"] = func(_ string, t string) string { return t }
	funcs["danger"] = fmt.Sprint
	funcs["notice"] = fmt.Sprint
	funcs["success"] = fmt.Sprint
	return funcs
}

// highlight returns content t colored based on the severity name
func highlight(severity string, t string) string {
	switch severity {
	case "critical", "high":
		return color.FgRed.Render(t)
	case "medium":
		return color.FgYellow.Render(t)
	case "low":
		return color.FgBlue.Render(t)
	default:
		return color.FgCyan.Render(t)
	}
}

// indentBlock prefixes every line of s with the detail indentation
func indentBlock(s string) string {
	return indent + strings.ReplaceAll(s, "\n", "\n"+indent)
}

// wrap breaks s into lines of at most width bytes at spaces. Words longer
// than width are kept whole.
func wrap(s string, width int) string {
	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(s) {
		switch {
		case lineLen == 0:
		case lineLen+1+len(word) > width:
			b.WriteByte('\n')
			lineLen = 0
		default:
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
