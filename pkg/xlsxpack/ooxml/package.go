package ooxml

import (
	"strconv"
	"strings"
	"time"
)

// ContentTypes renders [Content_Types].xml for n worksheets.
func ContentTypes(n int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="` + nsContentTypes + `">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/` + PathWorkbook + `" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>`)
	b.WriteString(`<Override PartName="/` + PathCoreProps + `" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/` + PathAppProps + `" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`<Override PartName="/` + PathStyles + `" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>`)
	for i := 1; i <= n; i++ {
		b.WriteString(`<Override PartName="/` + WorksheetPath(i) + `" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`)
	}
	b.WriteString(`</Types>`)
	return []byte(b.String())
}

// RootRels renders _rels/.rels.
func RootRels() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + nsPkgRels + `">`)
	writeRel(&b, "rId1", relOfficeDocument, PathWorkbook)
	writeRel(&b, "rId2", relCoreProps, PathCoreProps)
	writeRel(&b, "rId3", relExtendedProps, PathAppProps)
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

// WorkbookRels renders xl/_rels/workbook.xml.rels: rId1..rIdN for the
// worksheets, rId(N+1) for styles.
func WorkbookRels(n int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + nsPkgRels + `">`)
	for i := 1; i <= n; i++ {
		writeRel(&b, "rId"+strconv.Itoa(i), relWorksheet, strings.TrimPrefix(WorksheetPath(i), "xl/"))
	}
	writeRel(&b, "rId"+strconv.Itoa(n+1), relStyles, strings.TrimPrefix(PathStyles, "xl/"))
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

func writeRel(b *strings.Builder, id, typ, target string) {
	b.WriteString(`<Relationship Id="` + id + `" Type="` + typ + `" Target="` + target + `"/>`)
}

// WorkbookXML renders xl/workbook.xml listing names in tab order.
func WorkbookXML(names []string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<workbook xmlns="` + nsMain + `" xmlns:r="` + nsR + `">`)
	b.WriteString(`<workbookPr/><bookViews><workbookView/></bookViews><sheets>`)
	for i, name := range names {
		id := strconv.Itoa(i + 1)
		b.WriteString(`<sheet name="` + escape(name) + `" sheetId="` + id + `" r:id="rId` + id + `"/>`)
	}
	b.WriteString(`</sheets></workbook>`)
	return []byte(b.String())
}

// Styles renders a stylesheet holding only the default cell format.
func Styles() []byte {
	return []byte(xmlHeader +
		`<styleSheet xmlns="` + nsMain + `">` +
		`<fonts count="1"><font><sz val="11"/><name val="Calibri"/><family val="2"/></font></fonts>` +
		`<fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills>` +
		`<borders count="1"><border><left/><right/><top/><bottom/><diagonal/></border></borders>` +
		`<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>` +
		`<cellXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/></cellXfs>` +
		`<cellStyles count="1"><cellStyle name="Normal" xfId="0" builtinId="0"/></cellStyles>` +
		`</styleSheet>`)
}

// CoreProps renders docProps/core.xml.
func CoreProps(creator string, created time.Time) []byte {
	ts := created.UTC().Format("2006-01-02T15:04:05Z")
	c := escape(creator)
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="` + nsCoreProps + `" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	b.WriteString(`<dc:creator>` + c + `</dc:creator>`)
	b.WriteString(`<cp:lastModifiedBy>` + c + `</cp:lastModifiedBy>`)
	b.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>`)
	b.WriteString(`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified>`)
	b.WriteString(`</cp:coreProperties>`)
	return []byte(b.String())
}

// AppProps renders docProps/app.xml.
func AppProps(names []string, application string) []byte {
	n := strconv.Itoa(len(names))
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Properties xmlns="` + nsExtendedProps + `" xmlns:vt="` + nsDocPropsVT + `">`)
	b.WriteString(`<Application>` + escape(application) + `</Application>`)
	b.WriteString(`<DocSecurity>0</DocSecurity><ScaleCrop>false</ScaleCrop>`)
	b.WriteString(`<HeadingPairs><vt:vector size="2" baseType="variant">`)
	b.WriteString(`<vt:variant><vt:lpstr>Worksheets</vt:lpstr></vt:variant>`)
	b.WriteString(`<vt:variant><vt:i4>` + n + `</vt:i4></vt:variant>`)
	b.WriteString(`</vt:vector></HeadingPairs>`)
	b.WriteString(`<TitlesOfParts><vt:vector size="` + n + `" baseType="lpstr">`)
	for _, name := range names {
		b.WriteString(`<vt:lpstr>` + escape(name) + `</vt:lpstr>`)
	}
	b.WriteString(`</vt:vector></TitlesOfParts></Properties>`)
	return []byte(b.String())
}
