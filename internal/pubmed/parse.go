// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Article is one bibliographic record as pulled from the efetch markup.
// It lives only for the duration of one fetch cycle; ToReference produces
// the durable form.
type Article struct {
	PMID     string
	Title    string
	Journal  string
	PubDate  string
	PubTypes []string
}

// ParseArticleSet decodes a PubmedArticleSet XML document into Articles.
// Records missing a PMID are skipped rather than failing the batch (R3.4).
func ParseArticleSet(r io.Reader) ([]Article, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	var articles []Article
	for _, pa := range set.Articles {
		a := Article{
			PMID:    strings.TrimSpace(pa.Citation.PMID),
			Title:   stripTags(pa.Citation.Article.Title),
			Journal: strings.TrimSpace(pa.Citation.MedlineJournalInfo.MedlineTA),
		}
		if a.PMID == "" {
			continue
		}
		// MedlineTA is the usual journal field; fall back to the full title.
		if a.Journal == "" {
			a.Journal = strings.TrimSpace(pa.Citation.Article.Journal.Title)
		}

		d := pa.Citation.Article.Journal.Issue.PubDate
		switch {
		case d.Year != "" && d.Month != "":
			a.PubDate = d.Month + " " + d.Year
		case d.Year != "":
			a.PubDate = d.Year
		case d.MedlineDate != "":
			a.PubDate = d.MedlineDate
		}

		for _, pt := range pa.Citation.Article.PublicationTypeList {
			if t := strings.TrimSpace(pt); t != "" {
				a.PubTypes = append(a.PubTypes, t)
			}
		}

		articles = append(articles, a)
	}
	return articles, nil
}

// Evidence-type ladder, most authoritative first. Matching is
// case-insensitive substring over the publication-type tags; the first
// rung with a match wins (R4.1).
var evidenceLadder = []struct {
	needle string
	label  string
}{
	{"meta-analysis", "Meta-Analysis"},
	{"systematic review", "Systematic Review"},
	{"randomized controlled trial", "RCT"},
	{"clinical trial", "Clinical Trial"},
	{"guideline", "Guideline"},
	{"review", "Review"},
}

// EvidenceType classifies an article's study design from its
// publication-type tags; unmatched articles are plain "Article".
func EvidenceType(pubTypes []string) string {
	for _, rung := range evidenceLadder {
		for _, t := range pubTypes {
			if strings.Contains(strings.ToLower(t), rung.needle) {
				return rung.label
			}
		}
	}
	return "Article"
}

// RelevanceTier maps publication-type tags to an evidence tier: High for
// syntheses and guidelines, Medium for trials, Low otherwise (R4.2).
func RelevanceTier(pubTypes []string) string {
	joined := strings.ToLower(strings.Join(pubTypes, "|"))
	switch {
	case strings.Contains(joined, "meta-analysis"),
		strings.Contains(joined, "systematic review"),
		strings.Contains(joined, "guideline"):
		return "High"
	case strings.Contains(joined, "randomized controlled trial"),
		strings.Contains(joined, "clinical trial"):
		return "Medium"
	default:
		return "Low"
	}
}

// ToReference converts an Article to a normalized Reference. The second
// return is false when the article fails the validity filter: no PMID, or
// a title that is empty or a placeholder once normalized (R4.3).
func ToReference(a Article) (types.Reference, bool) {
	if a.PMID == "" {
		return types.Reference{}, false
	}
	norm := NormalizeTitle(a.Title)
	if norm == "" || norm == "untitled" {
		return types.Reference{}, false
	}

	return types.Reference{
		PMID:         a.PMID,
		Title:        strings.TrimSpace(a.Title),
		Source:       a.Journal,
		Year:         yearOf(a.PubDate),
		EvidenceType: EvidenceType(a.PubTypes),
		Relevance:    RelevanceTier(a.PubTypes),
		URL:          articleURLBase + a.PMID + "/",
	}, true
}

// Normalize converts a batch of Articles into valid, deduplicated
// References, preserving order. Within the batch a reference is keyed by
// PMID, falling back to normalized title; the first occurrence wins (R4.4).
func Normalize(articles []Article) []types.Reference {
	seen := make(map[string]struct{})
	var refs []types.Reference

	for _, a := range articles {
		ref, ok := ToReference(a)
		if !ok {
			continue
		}

		idKey := "id:" + ref.PMID
		titleKey := "title:" + NormalizeTitle(ref.Title)
		if _, dup := seen[idKey]; dup {
			continue
		}
		if _, dup := seen[titleKey]; dup {
			continue
		}

		seen[idKey] = struct{}{}
		seen[titleKey] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// NormalizeTitle lower-cases a title and strips everything but letters and
// digits, for placeholder detection and title-based dedup.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripTags removes markup tags (<i>, <sup>, ...) PubMed leaves inside
// ArticleTitle, collapsing whitespace.
func stripTags(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// yearOf pulls the trailing 4-digit year out of a PubDate string
// ("Mar 2021" or "2021"); other shapes pass through unchanged.
func yearOf(pubDate string) string {
	fields := strings.Fields(pubDate)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if len(last) == 4 && strings.IndexFunc(last, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		return last
	}
	return pubDate
}

// efetch XML structures. Only the fields the engine reads are declared;
// xml.Decoder ignores the rest of the DTD.
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID               string             `xml:"PMID"`
	Article            articleNode        `xml:"Article"`
	MedlineJournalInfo medlineJournalInfo `xml:"MedlineJournalInfo"`
}

type articleNode struct {
	Title               string      `xml:"ArticleTitle"`
	Journal             journalNode `xml:"Journal"`
	PublicationTypeList []string    `xml:"PublicationTypeList>PublicationType"`
}

type journalNode struct {
	Title           string       `xml:"Title"`
	ISOAbbreviation string       `xml:"ISOAbbreviation"`
	Issue           journalIssue `xml:"JournalIssue"`
}

type journalIssue struct {
	PubDate pubDateNode `xml:"PubDate"`
}

type medlineJournalInfo struct {
	MedlineTA string `xml:"MedlineTA"`
}

type pubDateNode struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	MedlineDate string `xml:"MedlineDate"`
}
