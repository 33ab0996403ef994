package mindscript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zephyrtronium/contains"
)

// Stringify renders v the way the `str` builtin does (spec §4.6): strings
// render raw at top level, annotations render as a leading comment line,
// and containers render deeply, quoting nested strings. Cycles — a mutable
// array or object that (directly or transitively) contains itself — render
// as "<cycle>" rather than recursing forever, per spec §9's requirement
// that stringification tolerate them.
func Stringify(v Value) string {
	var b strings.Builder
	if ann := v.AnnotationText(); ann != "" {
		for _, line := range strings.Split(ann, "\n") {
			fmt.Fprintf(&b, "# %s\n", line)
		}
	}
	writeValue(&b, v, false, contains.Set{})
	return b.String()
}

func writeValue(b *strings.Builder, v Value, quoted bool, seen contains.Set) {
	switch v.Kind {
	case KNull:
		b.WriteString("null")
	case KBool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KNum:
		b.WriteString(formatNum(v.n))
	case KStr:
		if quoted {
			b.WriteString(quoteStr(v.s))
		} else {
			b.WriteString(v.s)
		}
	case KArray:
		writeArray(b, v, seen)
	case KObject:
		writeObject(b, v, seen)
	case KFunction:
		fmt.Fprintf(b, "<function%s>", paramSig(v.fn.Param, v.fn.ReturnType))
	case KOracle:
		fmt.Fprintf(b, "<oracle%s>", paramSig(v.orc.Param, v.orc.ReturnType))
	case KType:
		b.WriteString(v.typ.String())
	default:
		b.WriteString("<unknown>")
	}
}

func paramSig(p Param, ret *Type) string {
	pt := "Any"
	if p.Type != nil {
		pt = p.Type.String()
	}
	rt := "Any"
	if ret != nil {
		rt = ret.String()
	}
	return fmt.Sprintf("(%s) -> %s", pt, rt)
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func quoteStr(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeArray(b *strings.Builder, v Value, seen contains.Set) {
	id, ok := ptrID(v)
	if ok && !seen.Add(id) {
		b.WriteString("<cycle>")
		return
	}
	b.WriteByte('[')
	for i, it := range v.Items() {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(b, it, true, seen)
	}
	b.WriteByte(']')
}

func writeObject(b *strings.Builder, v Value, seen contains.Set) {
	id, ok := ptrID(v)
	if ok && !seen.Add(id) {
		b.WriteString("<cycle>")
		return
	}
	b.WriteByte('{')
	for i, k := range v.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		val, _ := v.Get(k)
		fmt.Fprintf(b, "%s: ", k)
		writeValue(b, val, true, seen)
	}
	b.WriteByte('}')
}
