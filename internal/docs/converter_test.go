package docs

import (
	"strings"
	"testing"

	docs "google.golang.org/api/docs/v1"
)

func paragraph(text string) *docs.StructuralElement {
	return &docs.StructuralElement{
		Paragraph: &docs.Paragraph{
			Elements: []*docs.ParagraphElement{
				{TextRun: &docs.TextRun{Content: text}},
			},
		},
	}
}

func TestDocumentToPlainTextNil(t *testing.T) {
	if _, err := DocumentToPlainText(nil); err == nil {
		t.Fatal("nil document accepted, want error")
	}
}

func TestDocumentToPlainTextLegacyBody(t *testing.T) {
	doc := &docs.Document{
		Title: "Notes",
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				paragraph("First line\n"),
				paragraph("Second line\n"),
			},
		},
	}

	text, err := DocumentToPlainText(doc)
	if err != nil {
		t.Fatalf("DocumentToPlainText() error: %v", err)
	}

	want := "Notes\n\nFirst line\nSecond line\n"
	if text != want {
		t.Errorf("DocumentToPlainText() = %q, want %q", text, want)
	}
}

func TestDocumentToPlainTextTabs(t *testing.T) {
	doc := &docs.Document{
		Title: "Plan",
		Tabs: []*docs.Tab{
			{
				TabProperties: &docs.TabProperties{Title: "Overview"},
				DocumentTab: &docs.DocumentTab{
					Body: &docs.Body{
						Content: []*docs.StructuralElement{paragraph("Intro\n")},
					},
				},
			},
			{
				DocumentTab: &docs.DocumentTab{
					Body: &docs.Body{
						Content: []*docs.StructuralElement{paragraph("Details\n")},
					},
				},
				ChildTabs: []*docs.Tab{
					{
						TabProperties: &docs.TabProperties{Title: "Appendix"},
						DocumentTab: &docs.DocumentTab{
							Body: &docs.Body{
								Content: []*docs.StructuralElement{paragraph("Extra\n")},
							},
						},
					},
				},
			},
		},
	}

	text, err := DocumentToPlainText(doc)
	if err != nil {
		t.Fatalf("DocumentToPlainText() error: %v", err)
	}

	for _, want := range []string{
		"Plan",
		"=== Overview ===",
		"Intro",
		"=== Tab 2 ===",
		"Details",
		"=== Appendix ===",
		"Extra",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestDocumentToPlainTextTable(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{
					Table: &docs.Table{
						TableRows: []*docs.TableRow{
							{
								TableCells: []*docs.TableCell{
									{Content: []*docs.StructuralElement{paragraph("a")}},
									{Content: []*docs.StructuralElement{paragraph("b")}},
								},
							},
						},
					},
				},
			},
		},
	}

	text, err := DocumentToPlainText(doc)
	if err != nil {
		t.Fatalf("DocumentToPlainText() error: %v", err)
	}
	if !strings.Contains(text, "a\tb\t") {
		t.Errorf("table cells not tab separated: %q", text)
	}
}
