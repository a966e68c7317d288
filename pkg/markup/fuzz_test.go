package markup_test

import (
	"testing"

	"github.com/yaklabco/markbridge/pkg/markup"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

// FuzzParse checks that arbitrary input always yields a well-formed tree.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"Hello, world!",
		"# Heading",
		"- list\n- items",
		"```\ncode\n```",
		"*emphasis* and **strong**",
		"[link](url) and ![image](src)",
		"<p align=\"center\">x</p>",
		"<div align=\"right\">\n\n> q\n\n</div>",
		"<div align=\"center\">\n<div align=\"center\">\n</div>",
		"<u><u>x</u>",
		"&nbsp;",
		"a  \n<br>b",
		"| a |\n| - |\n| b |",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		doc := markup.Parse(src)
		if doc == nil || doc.Kind != rtree.NodeDocument {
			t.Fatalf("expected document root, got %+v", doc)
		}

		err := rtree.Walk(doc, func(n *rtree.Node) error {
			for child := n.FirstChild; child != nil; child = child.Next {
				if child.Parent != n {
					t.Fatalf("broken parent link under %s", n.Kind)
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walk failed: %v", err)
		}
	})
}
