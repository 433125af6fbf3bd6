package parser

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"

	"github.com/thalesbertaglia/toxmon/internal/models"
)

// noneSentinel is how the raw archive spells an absent value inside
// serialized descriptors.
const noneSentinel = "None"

// providerYouTube is the media discriminator for an embedded YouTube player.
const providerYouTube = "youtube.com"

var embedIDPattern = regexp.MustCompile(`youtube\.com/embed/([^/?"'&\s]+)`)

// ExtractEmbeddedMedia pulls YouTube oembed metadata out of a raw media
// descriptor. It returns nil when the descriptor is absent, undecodable, not
// a recognized provider, or missing the oembed block entirely; partial data
// never leaks into the record. Decode failures are logged, not raised.
func ExtractEmbeddedMedia(media any) *models.EmbeddedMedia {
	decoded, ok := decodeMediaDescriptor(media)
	if !ok {
		return nil
	}

	if decoded.Get("type").String() != providerYouTube {
		return nil
	}

	oembed := decoded.Get("oembed")
	if !oembed.IsObject() {
		return nil
	}

	return &models.EmbeddedMedia{
		AuthorName: oembedField(oembed, "author_name"),
		AuthorURL:  oembedField(oembed, "author_url"),
		VideoTitle: oembedField(oembed, "title"),
		VideoID:    extractVideoID(oembed.Get("html").String()),
	}
}

// decodeMediaDescriptor leniently decodes the media field. The archive holds
// it as a JSON object, a JSON string, or a Python-literal string from older
// collector runs; anything else degrades to "not decodable".
func decodeMediaDescriptor(media any) (gjson.Result, bool) {
	switch m := media.(type) {
	case nil:
		return gjson.Result{}, false
	case map[string]any:
		b, err := json.Marshal(m)
		if err != nil {
			return gjson.Result{}, false
		}
		return gjson.ParseBytes(b), true
	case string:
		if m == "" || m == noneSentinel {
			return gjson.Result{}, false
		}
		text := m
		if !gjson.Valid(text) {
			text = pythonLiteralToJSON(m)
		}
		if !gjson.Valid(text) {
			slog.Warn("[ThreadParser] Undecodable media descriptor",
				slog.String("media", truncate(m, 120)))
			return gjson.Result{}, false
		}
		return gjson.Parse(text), true
	default:
		return gjson.Result{}, false
	}
}

func oembedField(oembed gjson.Result, key string) string {
	v := oembed.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return noneSentinel
	}
	return v.String()
}

// extractVideoID pulls the video identifier out of the embed-player markup.
func extractVideoID(html string) string {
	m := embedIDPattern.FindStringSubmatch(html)
	if m == nil {
		return noneSentinel
	}
	return m[1]
}

// pythonLiteralToJSON rewrites a Python dict literal into JSON text:
// single-quoted strings become double-quoted and the bare constants None,
// True and False become their JSON equivalents. The result is not guaranteed
// valid; callers re-check with gjson.Valid.
func pythonLiteralToJSON(src string) string {
	var b strings.Builder
	b.Grow(len(src) + 16)

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if c == '\'' || c == '"' {
			i = writeJSONString(&b, runes, i)
			continue
		}

		if unicode.IsLetter(c) {
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			switch word := string(runes[i:j]); word {
			case "None":
				b.WriteString("null")
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			default:
				b.WriteString(word)
			}
			i = j - 1
			continue
		}

		b.WriteRune(c)
	}

	return b.String()
}

// writeJSONString consumes one quoted string starting at runes[start] and
// writes its JSON form. It returns the index of the closing quote (or the
// last rune when the literal is unterminated).
func writeJSONString(b *strings.Builder, runes []rune, start int) int {
	quote := runes[start]
	b.WriteByte('"')

	i := start + 1
	for i < len(runes) {
		r := runes[i]

		if r == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if next == '\'' {
				// \' is only meaningful inside single quotes; JSON wants a bare one
				b.WriteRune('\'')
			} else {
				b.WriteRune('\\')
				b.WriteRune(next)
			}
			i += 2
			continue
		}

		if r == quote {
			break
		}

		if r == '"' {
			b.WriteString(`\"`)
		} else {
			b.WriteRune(r)
		}
		i++
	}

	b.WriteByte('"')
	return i
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
