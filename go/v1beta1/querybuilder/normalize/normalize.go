// Copyright 2021 The Rode Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var specialCharacterRegex = regexp.MustCompile(`[!"#$%&'()*+,\-./:;<=>?@\[\\\]^_{|}~` + "`" + `]`)

// StripAccents removes diacritical marks from s. Latin letters that carry no
// canonical decomposition (đ, ø, ł) are transliterated to their base letter.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII || !unicode.Is(unicode.Latin, r) {
			return r
		}
		folded := []rune(unidecode.Unidecode(string(r)))
		if len(folded) != 1 {
			return r
		}
		if unicode.IsUpper(r) {
			return unicode.ToUpper(folded[0])
		}

		return folded[0]
	}, stripped)
}

// HasAccents reports whether s differs from its accent-stripped form.
func HasAccents(s string) bool {
	return StripAccents(s) != s
}

// HasSpecialCharacters reports whether s contains ASCII punctuation or symbols.
func HasSpecialCharacters(s string) bool {
	return specialCharacterRegex.MatchString(s)
}
