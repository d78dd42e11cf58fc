package extract

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agentstation/intentmap/pkg/catalog"
)

// docPattern matches numbered document filenames: NNN-AA-CODE-slug.md.
var docPattern = regexp.MustCompile(`^(\d{3})-([A-Z]{2})-([A-Z]{4})-(.+)\.md$`)

// firstH1 matches the first level-one heading in a markdown body.
var firstH1 = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// docsDirName is the conventional documents subdirectory.
const docsDirName = "000-docs"

// findDocuments runs the two document discovery passes: the conventional
// 000-docs subdirectory scan, then a repo-wide filename-pattern scan.
// Results are merged with first-seen-wins de-duplication by doc id.
func findDocuments(repoPath, repoName, commit string) []catalog.Document {
	var documents []catalog.Document
	seen := make(map[string]bool)

	add := func(doc catalog.Document) {
		if seen[doc.ID] {
			return
		}
		seen[doc.ID] = true
		documents = append(documents, doc)
	}

	// Pass 1: *.md directly inside any 000-docs directory.
	walkFiles(repoPath, func(path string, d fs.DirEntry) {
		if !strings.HasSuffix(d.Name(), ".md") {
			return
		}
		if filepath.Base(filepath.Dir(path)) != docsDirName {
			return
		}
		add(extractDocument(path, repoPath, repoName, commit))
	})

	// Pass 2: pattern-named documents anywhere in the repo.
	walkFiles(repoPath, func(path string, d fs.DirEntry) {
		if !docPattern.MatchString(d.Name()) {
			return
		}
		add(extractDocument(path, repoPath, repoName, commit))
	})

	return documents
}

// extractDocument derives a document entity from a markdown file. The file
// body is only needed for the title; an unreadable body falls back to a
// title-cased filename rather than a warning.
func extractDocument(docPath, repoPath, repoName, commit string) catalog.Document {
	rel := relPath(repoPath, docPath)
	filename := filepath.Base(docPath)
	stem := strings.TrimSuffix(filename, ".md")

	var id, categoryCode string
	docType := catalog.DocTypeUnknown

	if m := docPattern.FindStringSubmatch(filename); m != nil {
		id = stem
		categoryCode = m[2] + "-" + m[3]
		docType = catalog.DocTypeForCategory(categoryCode)
	} else {
		id = ToKebabCase(stem)
		if id == "" {
			id = stableID(rel)
		}
	}

	title := titleFromStem(stem)
	if content, err := os.ReadFile(docPath); err == nil {
		if m := firstH1.FindStringSubmatch(string(content)); m != nil {
			title = strings.TrimSpace(m[1])
		}
	}

	return catalog.Document{
		ID:           id,
		Title:        title,
		DocType:      docType,
		CategoryCode: categoryCode,
		Path:         rel,
		SourceRepo:   repoName,
		SourceCommit: commit,
		Status:       "unknown",
	}
}
