package rules

import "regexp"

// reBuyerMarker matches the terms that open the recipient's requisites
// block. Matched case-insensitively against the original text, so marker
// offsets are valid byte positions even when OCR emits glyphs whose case
// variants differ in encoded length.
var reBuyerMarker = regexp.MustCompile(`(?i)покупатель|заказчик|грузополучатель|клиент|плательщик`)

// SplitBlocks splits normalized document text into the issuer region and
// the recipient region. The split point is the leftmost occurrence of any
// buyer marker, regardless of marker declaration order. Without a marker
// the whole text is the issuer block and the recipient block is empty.
func SplitBlocks(text string) (supplier, buyer string) {
	loc := reBuyerMarker.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	return text[:loc[0]], text[loc[0]:]
}
