// Package testutil builds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"fmt"
	"strings"
)

// BuildPDF renders a minimal single-font PDF with one text run per page.
// Only printable ASCII survives the WinAnsi encoding unchanged.
func BuildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int

	startObj := func() int {
		offsets = append(offsets, buf.Len())
		return len(offsets)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1 catalog, 2 page tree, 3 font, then a page/content pair per page
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	n := startObj()
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n", n)
	n = startObj()
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", n, strings.Join(kids, " "), len(pages))
	n = startObj()
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n", n)

	for _, text := range pages {
		pageObj := startObj()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>\nendobj\n", pageObj, pageObj+1)

		stream := fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n(%s) Tj\nET", escapePDFString(text))
		contentObj := startObj()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", contentObj, len(stream), stream)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, "\n", " ")
	return r.Replace(s)
}
