package translation

import (
	"github.com/abadojack/whatlanggo"

	"lingua-room/domain"
)

// minConfidence below which a detection result is considered noise.
const minConfidence = 0.4

// Detect guesses the ISO-639-1 code of text, falling back to the
// session default when the detector is unsure or the script has no
// two-letter code.
func Detect(text string) string {
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" || info.Confidence < minConfidence {
		return domain.DefaultLanguage
	}
	return code
}
