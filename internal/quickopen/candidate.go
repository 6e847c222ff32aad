package quickopen

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/runger/quickopen/internal/source"
)

// Candidate is one file offered by the picker.
type Candidate struct {
	// Path is the canonical absolute path and the identity of the candidate.
	Path string

	// DisplayName is the sanitised, non-empty name shown and matched.
	DisplayName string

	// Kind classifies the file for presentation.
	Kind Kind

	// RecencyRank is 0 for the most recently used file, -1 when the file
	// did not come from the recent-files source.
	RecencyRank int

	// Sources records which collectors produced the path.
	Sources SourceSet
}

// IsRecent reports whether the candidate carries a recency rank.
func (c Candidate) IsRecent() bool {
	return c.RecencyRank >= 0
}

// Dir returns the directory containing the candidate.
func (c Candidate) Dir() string {
	return filepath.Dir(c.Path)
}

// Kind is a coarse file classification.
type Kind string

const (
	KindText     Kind = "text"
	KindSource   Kind = "source"
	KindImage    Kind = "image"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
	KindArchive  Kind = "archive"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

// Glyph returns a one-column symbol for the kind.
func (k Kind) Glyph() string {
	switch k {
	case KindText:
		return "≡"
	case KindSource:
		return "λ"
	case KindImage:
		return "▣"
	case KindAudio:
		return "♪"
	case KindVideo:
		return "▶"
	case KindArchive:
		return "▤"
	case KindDocument:
		return "¶"
	default:
		return "·"
	}
}

// extKinds covers extensions whose MIME type is missing from minimal
// systems or too generic to classify.
var extKinds = map[string]Kind{
	".txt": KindText, ".md": KindText, ".rst": KindText, ".log": KindText,
	".ini": KindText, ".conf": KindText, ".cfg": KindText, ".toml": KindText,
	".yaml": KindText, ".yml": KindText, ".csv": KindText,

	".go": KindSource, ".c": KindSource, ".h": KindSource, ".cc": KindSource,
	".cpp": KindSource, ".hpp": KindSource, ".rs": KindSource, ".py": KindSource,
	".rb": KindSource, ".js": KindSource, ".mjs": KindSource, ".ts": KindSource,
	".java": KindSource, ".kt": KindSource, ".swift": KindSource, ".sh": KindSource,
	".lua": KindSource, ".php": KindSource, ".pl": KindSource, ".sql": KindSource,
	".html": KindSource, ".htm": KindSource, ".css": KindSource, ".json": KindSource,
	".xml": KindSource,

	".zip": KindArchive, ".tar": KindArchive, ".gz": KindArchive, ".tgz": KindArchive,
	".bz2": KindArchive, ".xz": KindArchive, ".zst": KindArchive, ".7z": KindArchive,
	".rar": KindArchive,

	".pdf": KindDocument, ".odt": KindDocument, ".ods": KindDocument,
	".odp": KindDocument, ".doc": KindDocument, ".docx": KindDocument,
	".xls": KindDocument, ".xlsx": KindDocument, ".ppt": KindDocument,
	".pptx": KindDocument, ".epub": KindDocument,

	".mp3": KindAudio, ".flac": KindAudio, ".ogg": KindAudio, ".wav": KindAudio,
	".opus": KindAudio, ".m4a": KindAudio,

	".mp4": KindVideo, ".mkv": KindVideo, ".webm": KindVideo, ".avi": KindVideo,
	".mov": KindVideo,
}

// KindOf classifies path by its extension, consulting the system MIME
// table for extensions not known in advance.
func KindOf(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return KindOther
	}
	if k, ok := extKinds[ext]; ok {
		return k
	}

	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return KindOther
	}
	mt, _, _ = strings.Cut(mt, ";")
	major, minor, _ := strings.Cut(strings.TrimSpace(mt), "/")
	switch major {
	case "text":
		if strings.HasPrefix(minor, "x-") {
			return KindSource
		}
		return KindText
	case "image":
		return KindImage
	case "audio":
		return KindAudio
	case "video":
		return KindVideo
	}
	switch {
	case strings.Contains(minor, "zip"), strings.Contains(minor, "compressed"), strings.Contains(minor, "tar"):
		return KindArchive
	case strings.Contains(minor, "pdf"), strings.Contains(minor, "document"), strings.Contains(minor, "opendocument"):
		return KindDocument
	}
	return KindOther
}

// SourceSet is a bit set of source kinds.
type SourceSet uint8

func sourceBit(k source.Kind) SourceSet {
	for i, kind := range source.AllKinds {
		if kind == k {
			return 1 << i
		}
	}
	return 0
}

// With returns the set extended by k.
func (s SourceSet) With(k source.Kind) SourceSet {
	return s | sourceBit(k)
}

// Has reports whether k is in the set.
func (s SourceSet) Has(k source.Kind) bool {
	bit := sourceBit(k)
	return bit != 0 && s&bit != 0
}

// Kinds lists the members in collection order.
func (s SourceSet) Kinds() []source.Kind {
	var kinds []source.Kind
	for _, k := range source.AllKinds {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// String joins the member names with commas.
func (s SourceSet) String() string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ",")
}
