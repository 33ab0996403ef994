package mindscript

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// installStringBuiltins seeds the string helpers, grounded on the teacher's
// Sequence string encoding/decoding (sequence-string.go) for strEncode/
// strDecode and on ordinary stdlib strings for the rest.
func installStringBuiltins(env *Env) {
	env.Define("strSplit", nativeN(2, biStrSplit))
	env.Define("strJoin", nativeN(2, biStrJoin))
	env.Define("strTrim", native(biStrTrim))
	env.Define("strUpper", native(biStrUpper))
	env.Define("strLower", native(biStrLower))
	env.Define("strContains", nativeN(2, biStrContains))
	env.Define("strReplace", nativeN(3, biStrReplace))
	env.Define("strSlice", nativeN(3, biStrSlice))
	env.Define("strEncode", nativeN(2, biStrEncode))
	env.Define("strDecode", nativeN(2, biStrDecode))
}

func strArg(v Value, pos Position, who string) (string, error) {
	if v.Kind != KStr {
		return "", typeError(pos, "%s requires a Str argument, got %s", who, v.Kind)
	}
	return v.StrOf(), nil
}

func biStrSplit(ip *Interpreter, args []Value, pos Position) (Value, error) {
	s, err := strArg(args[0], pos, "strSplit")
	if err != nil {
		return Value{}, err
	}
	sep, err := strArg(args[1], pos, "strSplit")
	if err != nil {
		return Value{}, err
	}
	parts := strings.Split(s, sep)
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = Str(p)
	}
	return NewArray(out), nil
}

func biStrJoin(ip *Interpreter, args []Value, pos Position) (Value, error) {
	arr, sep := args[0], args[1]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "strJoin requires an array, got %s", arr.Kind)
	}
	sepStr, err := strArg(sep, pos, "strJoin")
	if err != nil {
		return Value{}, err
	}
	parts := make([]string, len(arr.Items()))
	for i, it := range arr.Items() {
		s, err := strArg(it, pos, "strJoin")
		if err != nil {
			return Value{}, err
		}
		parts[i] = s
	}
	return Str(strings.Join(parts, sepStr)), nil
}

func biStrTrim(ip *Interpreter, arg Value, pos Position) (Value, error) {
	s, err := strArg(arg, pos, "strTrim")
	if err != nil {
		return Value{}, err
	}
	return Str(strings.TrimSpace(s)), nil
}

func biStrUpper(ip *Interpreter, arg Value, pos Position) (Value, error) {
	s, err := strArg(arg, pos, "strUpper")
	if err != nil {
		return Value{}, err
	}
	return Str(strings.ToUpper(s)), nil
}

func biStrLower(ip *Interpreter, arg Value, pos Position) (Value, error) {
	s, err := strArg(arg, pos, "strLower")
	if err != nil {
		return Value{}, err
	}
	return Str(strings.ToLower(s)), nil
}

func biStrContains(ip *Interpreter, args []Value, pos Position) (Value, error) {
	s, err := strArg(args[0], pos, "strContains")
	if err != nil {
		return Value{}, err
	}
	sub, err := strArg(args[1], pos, "strContains")
	if err != nil {
		return Value{}, err
	}
	return Bool(strings.Contains(s, sub)), nil
}

func biStrReplace(ip *Interpreter, args []Value, pos Position) (Value, error) {
	s, err := strArg(args[0], pos, "strReplace")
	if err != nil {
		return Value{}, err
	}
	old, err := strArg(args[1], pos, "strReplace")
	if err != nil {
		return Value{}, err
	}
	new_, err := strArg(args[2], pos, "strReplace")
	if err != nil {
		return Value{}, err
	}
	return Str(strings.ReplaceAll(s, old, new_)), nil
}

func biStrSlice(ip *Interpreter, args []Value, pos Position) (Value, error) {
	s, err := strArg(args[0], pos, "strSlice")
	if err != nil {
		return Value{}, err
	}
	if args[1].Kind != KInt || args[2].Kind != KInt {
		return Value{}, typeError(pos, "strSlice requires (Str, Int, Int) arguments")
	}
	runes := []rune(s)
	start, end := int(args[1].IntOf()), int(args[2].IntOf())
	if start < 0 {
		start += len(runes)
	}
	if end < 0 {
		end += len(runes)
	}
	if start < 0 || end > len(runes) || start > end {
		return Value{}, valueError(pos, "strSlice index out of range")
	}
	return Str(string(runes[start:end])), nil
}

// encodingByName resolves an encoding name to a codec, grounded on the
// teacher's Sequence.String encoding switch (sequence-string.go): the same
// four encodings it supports for string<->bytes conversion.
func encodingByName(name string) (encoding.Encoding, bool) {
	switch name {
	case "ascii", "latin1":
		return charmap.Windows1252, true
	case "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), true
	case "utf32":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), true
	case "utf8", "":
		return encoding.Nop, true
	}
	return nil, false
}

func biStrEncode(ip *Interpreter, args []Value, pos Position) (Value, error) {
	s, err := strArg(args[0], pos, "strEncode")
	if err != nil {
		return Value{}, err
	}
	name, err := strArg(args[1], pos, "strEncode")
	if err != nil {
		return Value{}, err
	}
	enc, ok := encodingByName(name)
	if !ok {
		return Value{}, valueError(pos, "strEncode: unsupported encoding %q", name)
	}
	b, encErr := enc.NewEncoder().Bytes([]byte(s))
	if encErr != nil {
		return Value{}, valueError(pos, "strEncode: %v", encErr)
	}
	out := make([]Value, len(b))
	for i, c := range b {
		out[i] = Int(int64(c))
	}
	return NewArray(out), nil
}

func biStrDecode(ip *Interpreter, args []Value, pos Position) (Value, error) {
	arr, name := args[0], args[1]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "strDecode requires an array of byte values, got %s", arr.Kind)
	}
	nameStr, err := strArg(name, pos, "strDecode")
	if err != nil {
		return Value{}, err
	}
	b := make([]byte, len(arr.Items()))
	for i, it := range arr.Items() {
		if it.Kind != KInt {
			return Value{}, typeError(pos, "strDecode requires an array of Int byte values")
		}
		b[i] = byte(it.IntOf())
	}
	enc, ok := encodingByName(nameStr)
	if !ok {
		return Value{}, valueError(pos, "strDecode: unsupported encoding %q", nameStr)
	}
	decoded, decErr := enc.NewDecoder().Bytes(b)
	if decErr != nil {
		return Value{}, valueError(pos, "strDecode: %v", decErr)
	}
	return Str(string(decoded)), nil
}
