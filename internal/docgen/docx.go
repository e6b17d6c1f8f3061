// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docgen

import (
	"fmt"
	"strings"

	"baliance.com/gooxml/common"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"

	"github.com/pdiddy/paper-forge/internal/apa"
	"github.com/pdiddy/paper-forge/pkg/types"
)

const (
	firstLineIndent = measurement.Inch / 2
	blockIndent     = measurement.Inch / 2
	hangingIndent   = measurement.Inch / 2

	// blockQuoteWords is the APA threshold above which a quotation is
	// set as a freestanding indented block.
	blockQuoteWords = 40
)

// render builds the Word document for p in memory.
func render(p *types.Project, cfg types.GenerateConfig) (*document.Document, error) {
	doc := document.New()

	margin := measurement.Distance(p.Prefs.MarginCm) * measurement.Centimeter
	doc.BodySection().SetPageMargins(margin, margin, margin, margin,
		measurement.Inch/2, measurement.Inch/2, 0)

	if path, ok := p.Images[types.ImageHeader]; ok && path != "" {
		if err := addPageHeader(doc, path, cfg.HeaderMode); err != nil {
			return nil, err
		}
	} else if p.Institution != "" {
		addTextHeader(doc, p.Institution, p.Prefs)
	}

	// Page breaks are expressed as a property on the paragraph that
	// opens the new page. pageBreak marks the next block as a page
	// opener; hasContent distinguishes the document's first block,
	// which never needs one.
	pageBreak, hasContent := false, false

	if cfg.TitlePage {
		if err := addTitlePage(doc, p); err != nil {
			return nil, err
		}
		pageBreak, hasContent = true, true
	}

	if cfg.TOCGuide {
		addTOCGuide(doc, p.Prefs, pageBreak)
		pageBreak, hasContent = true, true
	}

	byKey := make(map[string]*types.Citation, len(p.Citations))
	for i := range p.Citations {
		byKey[p.Citations[i].Key] = &p.Citations[i]
	}
	resolve := func(key string) (*types.Citation, bool) {
		c, ok := byKey[key]
		return c, ok
	}

	for _, sec := range p.Sections {
		if sec.Chapter {
			addChapterDivider(doc, sec.Heading, p.Prefs, hasContent)
		} else {
			addSection(doc, sec, p.Prefs, resolve, pageBreak)
		}
		pageBreak, hasContent = false, true
	}

	addReferences(doc, p.Citations, p.Prefs, hasContent)
	return doc, nil
}

// addPageHeader places the header image on every page, either as a
// banner paragraph or as a free-floating watermark behind the text.
func addPageHeader(doc *document.Document, imgPath string, mode types.HeaderMode) error {
	img, err := common.ImageFromFile(imgPath)
	if err != nil {
		return fmt.Errorf("loading header image: %w", err)
	}
	hdr := doc.AddHeader()
	ref, err := hdr.AddImage(img)
	if err != nil {
		return fmt.Errorf("attaching header image: %w", err)
	}

	para := hdr.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	run := para.AddRun()

	switch mode {
	case types.HeaderWatermark:
		anchored, err := run.AddDrawingAnchored(ref)
		if err != nil {
			return fmt.Errorf("anchoring watermark: %w", err)
		}
		anchored.SetSize(4*measurement.Inch, 4*measurement.Inch)
		anchored.SetTextWrapNone()
		anchored.SetHAlignment(wml.WdST_AlignHCenter)
		anchored.SetVAlignment(wml.WdST_AlignVCenter)
	default:
		inline, err := run.AddDrawingInline(ref)
		if err != nil {
			return fmt.Errorf("placing banner: %w", err)
		}
		inline.SetSize(6*measurement.Inch, 1*measurement.Inch)
	}

	doc.BodySection().SetHeader(hdr, wml.ST_HdrFtrDefault)
	return nil
}

// addTextHeader places the institution name in the page header when no
// header image is attached.
func addTextHeader(doc *document.Document, institution string, prefs types.Preferences) {
	hdr := doc.AddHeader()
	para := hdr.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	run := para.AddRun()
	run.Properties().SetFontFamily(prefs.HeadingFont)
	run.Properties().SetSize(measurement.Distance(prefs.BodySize) * measurement.Point)
	run.Properties().SetItalic(true)
	run.AddText(institution)
	doc.BodySection().SetHeader(hdr, wml.ST_HdrFtrDefault)
}

// addTitlePage renders the centered cover: institution, title, badge
// image, and the people and course lines. The caller page-breaks the
// block that follows.
func addTitlePage(doc *document.Document, p *types.Project) error {
	centered := func(text string, size int, bold bool) {
		para := doc.AddParagraph()
		para.Properties().SetAlignment(wml.ST_JcCenter)
		para.Properties().Spacing().SetLineSpacing(
			measurement.Distance(p.Prefs.LineSpacing*12)*measurement.Point,
			wml.ST_LineSpacingRuleAuto)
		run := para.AddRun()
		run.Properties().SetFontFamily(p.Prefs.HeadingFont)
		run.Properties().SetSize(measurement.Distance(size) * measurement.Point)
		run.Properties().SetBold(bold)
		run.AddText(text)
	}

	if p.Institution != "" {
		centered(p.Institution, p.Prefs.HeadingSize, false)
	}
	doc.AddParagraph()
	centered(p.Title, p.Prefs.HeadingSize+4, true)
	doc.AddParagraph()

	if path, ok := p.Images[types.ImageBadge]; ok && path != "" {
		img, err := common.ImageFromFile(path)
		if err != nil {
			return fmt.Errorf("loading badge image: %w", err)
		}
		ref, err := doc.AddImage(img)
		if err != nil {
			return fmt.Errorf("attaching badge image: %w", err)
		}
		para := doc.AddParagraph()
		para.Properties().SetAlignment(wml.ST_JcCenter)
		inline, err := para.AddRun().AddDrawingInline(ref)
		if err != nil {
			return fmt.Errorf("placing badge: %w", err)
		}
		inline.SetSize(2*measurement.Inch, 2*measurement.Inch)
		doc.AddParagraph()
	}

	for _, student := range p.Students {
		centered(student, p.Prefs.BodySize, false)
	}
	if len(p.Tutors) > 0 {
		centered("Tutors: "+strings.Join(p.Tutors, ", "), p.Prefs.BodySize, false)
	}
	if p.Director != "" {
		centered("Director: "+p.Director, p.Prefs.BodySize, false)
	}
	if p.Course != "" {
		centered(p.Course, p.Prefs.BodySize, false)
	}
	return nil
}

// addTOCGuide emits the index page. Word owns the actual table of
// contents; the page carries the heading and an update instruction.
func addTOCGuide(doc *document.Document, prefs types.Preferences, pageBreak bool) {
	heading := doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.Properties().SetPageBreakBefore(pageBreak)
	heading.Properties().SetAlignment(wml.ST_JcCenter)
	hr := heading.AddRun()
	hr.Properties().SetFontFamily(prefs.HeadingFont)
	hr.Properties().SetSize(measurement.Distance(prefs.HeadingSize) * measurement.Point)
	hr.AddText("Contents")

	para := doc.AddParagraph()
	run := para.AddRun()
	run.Properties().SetFontFamily(prefs.BodyFont)
	run.Properties().SetSize(measurement.Distance(prefs.BodySize) * measurement.Point)
	run.Properties().SetItalic(true)
	run.AddText("Insert an automatic table of contents here (References > Table of Contents) and update it after editing.")
}

// addChapterDivider starts a new page with the chapter heading alone.
func addChapterDivider(doc *document.Document, heading string, prefs types.Preferences, pageBreak bool) {
	para := doc.AddParagraph()
	para.SetStyle("Heading1")
	para.Properties().SetPageBreakBefore(pageBreak)
	para.Properties().SetAlignment(wml.ST_JcCenter)
	run := para.AddRun()
	run.Properties().SetFontFamily(prefs.HeadingFont)
	run.Properties().SetSize(measurement.Distance(prefs.HeadingSize+2) * measurement.Point)
	run.Properties().SetBold(true)
	run.AddText(heading)
}

// addSection renders a heading and its body. Citation markers in the
// body are replaced with APA inline citations before layout.
func addSection(doc *document.Document, sec types.Section, prefs types.Preferences, resolve func(string) (*types.Citation, bool), pageBreak bool) {
	heading := doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.Properties().SetPageBreakBefore(pageBreak)
	hr := heading.AddRun()
	hr.Properties().SetFontFamily(prefs.HeadingFont)
	hr.Properties().SetSize(measurement.Distance(prefs.HeadingSize) * measurement.Point)
	hr.AddText(sec.Heading)

	body := apa.Render(sec.Body, resolve)
	for _, text := range splitParagraphs(body) {
		if isBlockQuote(text) {
			addBlockQuote(doc, text, prefs)
			continue
		}
		para := doc.AddParagraph()
		props := para.Properties()
		if prefs.Justify {
			props.SetAlignment(wml.ST_JcBoth)
		}
		if prefs.Indent && !sec.FrontMatter {
			props.SetFirstLineIndent(firstLineIndent)
		}
		props.Spacing().SetLineSpacing(
			measurement.Distance(prefs.LineSpacing*12)*measurement.Point,
			wml.ST_LineSpacingRuleAuto)
		run := para.AddRun()
		run.Properties().SetFontFamily(prefs.BodyFont)
		run.Properties().SetSize(measurement.Distance(prefs.BodySize) * measurement.Point)
		run.AddText(text)
	}
}

// addBlockQuote sets a long quotation as an indented block without a
// first-line indent, per APA style.
func addBlockQuote(doc *document.Document, text string, prefs types.Preferences) {
	para := doc.AddParagraph()
	props := para.Properties()
	props.SetStartIndent(blockIndent)
	props.Spacing().SetLineSpacing(
		measurement.Distance(prefs.LineSpacing*12)*measurement.Point,
		wml.ST_LineSpacingRuleAuto)
	run := para.AddRun()
	run.Properties().SetFontFamily(prefs.BodyFont)
	run.Properties().SetSize(measurement.Distance(prefs.BodySize) * measurement.Point)
	run.AddText(strings.Trim(text, `"“”`))
}

// addReferences renders the sorted APA reference list on its own page
// with hanging indents. Projects without citations skip the page.
func addReferences(doc *document.Document, citations []types.Citation, prefs types.Preferences, pageBreak bool) {
	if len(citations) == 0 {
		return
	}
	heading := doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.Properties().SetPageBreakBefore(pageBreak)
	heading.Properties().SetAlignment(wml.ST_JcCenter)
	hr := heading.AddRun()
	hr.Properties().SetFontFamily(prefs.HeadingFont)
	hr.Properties().SetSize(measurement.Distance(prefs.HeadingSize) * measurement.Point)
	hr.AddText("References")

	for _, entry := range apa.ReferenceList(citations) {
		para := doc.AddParagraph()
		props := para.Properties()
		props.SetStartIndent(hangingIndent)
		props.SetHangingIndent(hangingIndent)
		props.Spacing().SetLineSpacing(
			measurement.Distance(prefs.LineSpacing*12)*measurement.Point,
			wml.ST_LineSpacingRuleAuto)
		run := para.AddRun()
		run.Properties().SetFontFamily(prefs.BodyFont)
		run.Properties().SetSize(measurement.Distance(prefs.BodySize) * measurement.Point)
		run.AddText(entry)
	}
}

// splitParagraphs normalizes body text into paragraphs. Any run of
// newlines is a paragraph break; blank-only paragraphs are dropped.
func splitParagraphs(body string) []string {
	var out []string
	for _, part := range strings.Split(body, "\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isBlockQuote reports whether a paragraph is a quotation long enough
// to be set as a block.
func isBlockQuote(text string) bool {
	if len(text) < 2 {
		return false
	}
	quoted := (strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`)) ||
		(strings.HasPrefix(text, "“") && strings.HasSuffix(text, "”"))
	return quoted && len(strings.Fields(text)) > blockQuoteWords
}
