package media

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// reservedWindowsNames cannot be used as file names on Windows hosts.
var reservedWindowsNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SecureFilename reduces an untrusted client filename to a single safe path
// component. Path separators become spaces, non-ASCII letters are folded or
// dropped, whitespace collapses to underscores and leading dots or
// underscores are removed. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, name)

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if reservedWindowsNames[strings.ToUpper(strings.Split(name, ".")[0])] {
		name = "_" + name
	}
	return name
}

// BaseName returns the file name of path without directory or extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "minutes"
	}
	return name
}

// DownloadName builds the web download name "<base>_<YYYYMMDD>.md".
func DownloadName(original string, now time.Time) string {
	return BaseName(original) + "_" + now.Format("20060102") + ".md"
}

// SuggestedSaveName builds the desktop save default "<base>_minutes.md".
func SuggestedSaveName(sourcePath string) string {
	return BaseName(sourcePath) + "_minutes.md"
}
