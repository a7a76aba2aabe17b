package internal

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	InputPrefix  = "inputs/"
	OutputPrefix = "outputs/"

	transcriptExt      = ".txt"
	fallbackOutputName = "transcript"
)

// Ukrainian romanization (2010 national table). Letters with a
// word-initial form are listed in ukrainianInitial.
var ukrainianLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "h", 'ґ': "g", 'д': "d", 'е': "e",
	'є': "ie", 'ж': "zh", 'з': "z", 'и': "y", 'і': "i", 'ї': "i", 'й': "i",
	'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ь': "", 'ю': "iu", 'я': "ia",
	'\'': "", '’': "", 'ʼ': "",
	// Russian letters that show up in mixed file names
	'ё': "io", 'ъ': "", 'ы': "y", 'э': "e",
}

var ukrainianInitial = map[rune]string{
	'є': "ye", 'ї': "yi", 'й': "y", 'ю': "yu", 'я': "ya",
}

// Transliterate converts Ukrainian Cyrillic to Latin letters. Other runes pass through.
func Transliterate(s string) string {
	var sb strings.Builder
	src := []rune(s)
	for i := 0; i < len(src); i++ {
		r := src[i]
		lower := unicode.ToLower(r)
		latin, ok := ukrainianLatin[lower]
		if !ok {
			sb.WriteRune(r)
			continue
		}

		wordStart := i == 0 || !(unicode.IsLetter(src[i-1]) || isApostrophe(src[i-1]))
		if initial, ok := ukrainianInitial[lower]; ok && wordStart {
			latin = initial
		}
		// "зг" is written "zgh" to keep it apart from "ж"
		if lower == 'з' && i+1 < len(src) && unicode.ToLower(src[i+1]) == 'г' {
			latin = "zgh"
			i++
		}

		if unicode.IsUpper(r) && latin != "" {
			latin = strings.ToUpper(latin[:1]) + latin[1:]
		}
		sb.WriteString(latin)
	}
	return sb.String()
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == 'ʼ'
}

// foldDiacritics strips combining marks, e.g. "é" becomes "e"
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// SanitizeFilename turns an input file name into the transcript file name.
// The result only contains [a-z0-9_-] and ends in ".txt".
func SanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	name = strings.ToLower(foldDiacritics(Transliterate(name)))

	var sb strings.Builder
	pendingSep := false
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pendingSep = false
			if r == '_' {
				pendingSep = true
				continue
			}
			sb.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	sanitized := strings.Trim(sb.String(), "_-")
	if sanitized == "" {
		sanitized = fallbackOutputName
	}
	return sanitized + transcriptExt
}

// BucketName derives the default bucket for a project
func BucketName(project string) string {
	safe := strings.NewReplacer(":", "-", ".", "-").Replace(strings.ToLower(strings.TrimSpace(project)))
	return safe + "-" + BucketSuffix
}

// InputObject is the object name an input file is uploaded to
func InputObject(inputPath string) string {
	return InputPrefix + filepath.Base(inputPath)
}

// OutputObject is the object name a transcript is written to
func OutputObject(inputPath string) string {
	return OutputPrefix + SanitizeFilename(inputPath)
}

// GCSURI formats a gs:// URI
func GCSURI(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}

// PlanFor derives every destination for inputPath from the resolved configuration
func PlanFor(config *Config, inputPath string) Plan {
	outputName := SanitizeFilename(inputPath)
	plan := Plan{
		InputPath:      inputPath,
		Bucket:         config.Bucket,
		InputObject:    InputObject(inputPath),
		OutputFileName: outputName,
		OutputObject:   OutputObject(inputPath),
		LocalPath:      filepath.Join(config.OutputDir, outputName),
		Model:          config.Model,
	}
	plan.InputURI = GCSURI(plan.Bucket, plan.InputObject)
	plan.OutputURI = GCSURI(plan.Bucket, plan.OutputObject)
	return plan
}
