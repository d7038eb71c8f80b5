package selection

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/config"
	"github.com/gabriel-vasile/mimetype"
)

// AllowedExtensions lists the file extensions the picker offers.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// LoadCandidate reads a file from disk and declares its media type from the
// content, falling back to the extension when the content is unrecognised.
func LoadCandidate(path string) (Candidate, error) {
	path = config.ExpandPath(strings.TrimSpace(path))
	if path == "" {
		return Candidate{}, fmt.Errorf("%w: empty path", common.ErrNoImage)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return Candidate{}, fmt.Errorf("%w: %s", common.ErrEmptyFile, path)
	}

	return Candidate{
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: DetectMediaType(path, data),
		Data:      data,
	}, nil
}

// DetectMediaType sniffs data and falls back to the extension of name.
func DetectMediaType(name string, data []byte) string {
	detected := mimetype.Detect(data)
	if detected != nil && !detected.Is("application/octet-stream") && !detected.Is("text/plain") {
		base, _, _ := strings.Cut(detected.String(), ";")
		return base
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		base, _, _ := strings.Cut(byExt, ";")
		return base
	}

	if detected != nil {
		base, _, _ := strings.Cut(detected.String(), ";")
		return base
	}
	return "application/octet-stream"
}

// LoadDropped turns text pasted or dropped onto the terminal into candidates.
// Only the first path is read; the selection manager keeps at most one file,
// so the remaining paths are dropped here without touching the disk.
func LoadDropped(text string) ([]Candidate, error) {
	paths := ParseDropped(text)
	if len(paths) == 0 {
		return nil, nil
	}
	if len(paths) > 1 {
		common.LogDebug("Multiple paths dropped, keeping the first", common.Fields{
			"count": len(paths),
		})
	}

	candidate, err := LoadCandidate(paths[0])
	if err != nil {
		return nil, err
	}
	return []Candidate{candidate}, nil
}

// ParseDropped splits terminal drop text into file paths. Terminals deliver
// dropped files as shell-quoted paths separated by whitespace, or as
// file:// URIs one per line.
func ParseDropped(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if !started {
			return
		}
		if p := normalizeDropped(current.String()); p != "" {
			paths = append(paths, p)
		}
		current.Reset()
		started = false
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	return paths
}

func normalizeDropped(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			return u.Path
		}
	}
	return p
}
