// Package docx renders plain text as a minimal Word document: a
// title paragraph followed by one body paragraph with line breaks
// preserved. The output is an OOXML package built directly with
// archive/zip; it covers exactly what the download endpoints need and
// nothing more.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DefaultTitle is used when the caller supplies no title
const DefaultTitle = "Legal Document"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:styleId="Title">
<w:name w:val="Title"/>
<w:rPr><w:b/><w:sz w:val="52"/></w:rPr>
</w:style>
</w:styles>`

// Build renders the document and returns the .docx bytes
func Build(title, body string) ([]byte, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", documentXML(title, body)},
	}
	for _, part := range parts {
		entry, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("could not create %s: %w", part.name, err)
		}
		if _, err := io.WriteString(entry, part.content); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func documentXML(title, body string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString("\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	sb.WriteString(`<w:body>`)

	sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r>`)
	writeText(&sb, title)
	sb.WriteString(`</w:r></w:p>`)

	sb.WriteString(`<w:p><w:r>`)
	for i, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		if i > 0 {
			sb.WriteString(`<w:br/>`)
		}
		writeText(&sb, line)
	}
	sb.WriteString(`</w:r></w:p>`)

	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

// writeText emits one escaped text run. xml.EscapeText also replaces
// bytes that are illegal in XML, which LLM output occasionally
// contains.
func writeText(sb *strings.Builder, text string) {
	sb.WriteString(`<w:t xml:space="preserve">`)
	xml.EscapeText(sb, []byte(text))
	sb.WriteString(`</w:t>`)
}
