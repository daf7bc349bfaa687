// Package identity derives the natural key of an exhibition.
//
// Two exhibitions are the same when they belong to the same museum and their
// titles agree after normalization. The derived id is used as the document
// _id, so the store itself rejects a second document for the same pair.
package identity

import (
	"crypto/md5"
	"encoding/base64"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the museum id and the title hash.
const Separator = "_"

// NormalizeTitle folds a title to its comparison form: NFKC (full width to
// half width, compatibility characters to canonical ones), lower case, every
// whitespace run collapsed to a single ASCII space, and trimmed.
func NormalizeTitle(title string) string {
	s := norm.NFKC.String(title)
	s = cases.Lower(language.Und).String(s)
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// ExhibitionID returns museumID + "_" + base64url(md5(NormalizeTitle(title)))
// with no padding. The hash is a content address, not a security boundary.
func ExhibitionID(museumID, title string) string {
	sum := md5.Sum([]byte(NormalizeTitle(title)))
	return museumID + Separator + base64.RawURLEncoding.EncodeToString(sum[:])
}

// isSpace matches the characters a JavaScript \s class matches, which is
// unicode.IsSpace plus the byte order mark.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
