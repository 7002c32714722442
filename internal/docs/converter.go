package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// DocumentToPlainText extracts plain text from a document. Tabbed
// documents are walked tab by tab, child tabs included; legacy
// documents read from the body directly.
func DocumentToPlainText(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var text strings.Builder

	if doc.Title != "" {
		text.WriteString(doc.Title)
		text.WriteString("\n\n")
	}

	if len(doc.Tabs) > 0 {
		for tabIndex, tab := range doc.Tabs {
			writeTabHeading(&text, tab, tabIndex)
			writeTabContent(&text, tab)
			text.WriteString("\n")
		}
		return text.String(), nil
	}

	if doc.Body != nil {
		for _, element := range doc.Body.Content {
			extractElementText(&text, element)
		}
	}

	return text.String(), nil
}

func writeTabHeading(text *strings.Builder, tab *docs.Tab, index int) {
	switch {
	case tab.TabProperties != nil && tab.TabProperties.Title != "":
		fmt.Fprintf(text, "=== %s ===\n\n", tab.TabProperties.Title)
	case index > 0:
		fmt.Fprintf(text, "=== Tab %d ===\n\n", index+1)
	}
}

func writeTabContent(text *strings.Builder, tab *docs.Tab) {
	if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
		for _, element := range tab.DocumentTab.Body.Content {
			extractElementText(text, element)
		}
	}
	for childIndex, child := range tab.ChildTabs {
		writeTabHeading(text, child, childIndex+1)
		writeTabContent(text, child)
	}
}

func extractElementText(text *strings.Builder, element *docs.StructuralElement) {
	if element.Paragraph != nil {
		extractParagraphText(text, element.Paragraph)
	} else if element.Table != nil {
		extractTableText(text, element.Table)
	}
}

func extractParagraphText(text *strings.Builder, para *docs.Paragraph) {
	if para == nil {
		return
	}
	for _, elem := range para.Elements {
		if elem.TextRun != nil && elem.TextRun.Content != "" {
			text.WriteString(elem.TextRun.Content)
		}
	}
}

// extractTableText renders a table with tab-separated cells, one row
// per line.
func extractTableText(text *strings.Builder, table *docs.Table) {
	if table == nil {
		return
	}
	for _, row := range table.TableRows {
		for _, cell := range row.TableCells {
			for _, element := range cell.Content {
				if element.Paragraph != nil {
					extractParagraphText(text, element.Paragraph)
				}
			}
			text.WriteString("\t")
		}
		text.WriteString("\n")
	}
}
