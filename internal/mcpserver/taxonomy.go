package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/modcat/internal/classifier"
	"github.com/starford/modcat/internal/storage"
)

const taxonomyURI = "modcat://taxonomy"

// TaxonomyDocument describes how files are classified so that LLM
// consumers can interpret category tags without guessing.
func TaxonomyDocument() string {
	var b strings.Builder
	b.WriteString("# Module Catalog Taxonomy\n\n")
	b.WriteString("Every cataloged file carries exactly one category tag from the list below.\n\n")

	b.WriteString("## Categories\n\n")
	for _, c := range classifier.Categories() {
		fmt.Fprintf(&b, "- `%s`\n", c)
	}

	b.WriteString("\n## Evaluation order\n\n")
	b.WriteString("Top-level groupings are tested in this order against the lowercased path; the first match wins:\n\n")
	for i, g := range classifier.Groupings() {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, g)
	}
	b.WriteString("\nFiles matching no grouping are tagged `unknown` and described as `Module file: <filename>`.\n")
	b.WriteString("Inside a grouping, sub-groupings are matched against the directory part only, most specific first.\n\n")

	b.WriteString("## Scanned files\n\n")
	b.WriteString("Only these extensions are cataloged by default (case-sensitive): ")
	exts := make([]string, len(storage.DefaultExtensions))
	for i, e := range storage.DefaultExtensions {
		exts[i] = "`" + e + "`"
	}
	b.WriteString(strings.Join(exts, ", "))
	b.WriteString(".\nDirectories whose name starts with a dot are never entered.\n")
	return b.String()
}
