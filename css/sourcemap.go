package css

import (
	"encoding/json"
	"strings"
)

// sourceMapV3 is the standard source map v3 document.
type sourceMapV3 struct {
	Version  int      `json:"version"`
	File     string   `json:"file"`
	Sources  []string `json:"sources"`
	Names    []string `json:"names"`
	Mappings string   `json:"mappings"`
}

// EncodeSourceMap renders mappings produced by Writer as a source map
// v3 JSON document. The file argument names the generated output.
func EncodeSourceMap(file string, mappings []Mapping) ([]byte, error) {
	sources := make([]string, 0, 4)
	sourceIdx := make(map[string]int)
	for _, m := range mappings {
		if m.Source.IsZero() {
			continue
		}
		if _, ok := sourceIdx[m.Source.File]; !ok {
			sourceIdx[m.Source.File] = len(sources)
			sources = append(sources, m.Source.File)
		}
	}

	var (
		b        strings.Builder
		line     = 1
		prevCol  int
		prevSrc  int
		prevLine int
		prevSCol int
		first    = true
	)
	for _, m := range mappings {
		if m.Source.IsZero() {
			continue
		}
		for line < m.Line {
			b.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}
		if !first {
			b.WriteByte(',')
		}
		first = false

		src := sourceIdx[m.Source.File]
		writeVLQ(&b, m.Col-1-prevCol)
		writeVLQ(&b, src-prevSrc)
		writeVLQ(&b, m.Source.Line-1-prevLine)
		writeVLQ(&b, m.Source.Col-1-prevSCol)

		prevCol = m.Col - 1
		prevSrc = src
		prevLine = m.Source.Line - 1
		prevSCol = m.Source.Col - 1
	}

	return json.Marshal(sourceMapV3{
		Version:  3,
		File:     file,
		Sources:  sources,
		Names:    []string{},
		Mappings: b.String(),
	})
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ appends one base64 VLQ encoded value.
func writeVLQ(b *strings.Builder, v int) {
	u := uint32(v) << 1
	if v < 0 {
		u = uint32(-v)<<1 | 1
	}
	for {
		digit := u & 0x1f
		u >>= 5
		if u != 0 {
			digit |= 0x20
		}
		b.WriteByte(base64Chars[digit])
		if u == 0 {
			break
		}
	}
}
