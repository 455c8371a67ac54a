// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Footer sorts by newest first and caps the result set. It is appended to
// base queries by callers that want the conventional table view.
const Footer = `| sort @timestamp desc
    | limit 40`

// clauseIndent is the indentation used before each pipe clause.
const clauseIndent = "\n    | "

// Build assembles a Logs-Insights query scoped to logGroupName and returns
// it in sanitized form (see Sanitize).
func Build(logGroupName, baseQuery string) string {
	return Sanitize(Assemble(logGroupName, baseQuery))
}

// Assemble returns the raw multi-line query text without sanitization.
func Assemble(logGroupName, baseQuery string) string {
	return fmt.Sprintf("SOURCE '%s'%sfields @timestamp, @message%s%s",
		logGroupName, clauseIndent, clauseIndent, baseQuery)
}

// Definition returns the saved-query text form of baseQuery. Saved queries
// are bound to log groups out of band, so there is no SOURCE clause.
func Definition(baseQuery string) string {
	return "fields @timestamp, @message" + clauseIndent + baseQuery + "\n    "
}

// Sanitize round-trips s through JSON string escaping and restores only the
// newlines. The result equals s except that every '"' and '\' already in s
// comes back backslash-escaped. Downstream consumers depend on that exact
// output, so the asymmetry is kept.
func Sanitize(s string) string {
	quoted := jsonQuote(s)
	restored := strings.ReplaceAll(quoted, `\n`, "\n")
	if len(restored) < 2 {
		return ""
	}
	return restored[1 : len(restored)-1]
}

// jsonQuote renders s as a JSON string literal including the wrapping quotes.
// HTML escaping is disabled so '<', '>' and '&' stay literal, and the line
// and paragraph separators U+2028 and U+2029 are written as raw runes.
func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	start := 0
	for i, r := range s {
		if r == '\u2028' || r == '\u2029' {
			b.WriteString(jsonEscape(s[start:i]))
			b.WriteRune(r)
			start = i + utf8.RuneLen(r)
		}
	}
	b.WriteString(jsonEscape(s[start:]))
	b.WriteByte('"')
	return b.String()
}

// jsonEscape returns the JSON escaped body of s without the quotes.
func jsonEscape(s string) string {
	if s == "" {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	out := strings.TrimSuffix(buf.String(), "\n")
	return out[1 : len(out)-1]
}
