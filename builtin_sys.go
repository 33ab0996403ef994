package mindscript

import (
	"os"
	"path/filepath"
)

// installSysBuiltins seeds the filesystem helpers a hosted script needs to
// read configuration or write output without reaching for `import`, which is
// reserved for loading other MindScript modules.
func installSysBuiltins(env *Env) {
	env.Define("readFile", native(biReadFile))
	env.Define("writeFile", nativeN(2, biWriteFile))
	env.Define("fileExists", native(biFileExists))
	env.Define("joinPath", nativeN(2, biJoinPath))
}

func biReadFile(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KStr {
		return Value{}, typeError(pos, "readFile requires a Str path, got %s", arg.Kind)
	}
	b, err := os.ReadFile(arg.StrOf())
	if err != nil {
		return Value{}, valueError(pos, "readFile %q: %v", arg.StrOf(), err)
	}
	return Str(string(b)), nil
}

func biWriteFile(ip *Interpreter, args []Value, pos Position) (Value, error) {
	path, content := args[0], args[1]
	if path.Kind != KStr || content.Kind != KStr {
		return Value{}, typeError(pos, "writeFile requires (Str, Str) arguments")
	}
	if err := os.WriteFile(path.StrOf(), []byte(content.StrOf()), 0644); err != nil {
		return Value{}, valueError(pos, "writeFile %q: %v", path.StrOf(), err)
	}
	return Null, nil
}

func biFileExists(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KStr {
		return Value{}, typeError(pos, "fileExists requires a Str path, got %s", arg.Kind)
	}
	_, err := os.Stat(arg.StrOf())
	return Bool(err == nil), nil
}

func biJoinPath(ip *Interpreter, args []Value, pos Position) (Value, error) {
	a, b := args[0], args[1]
	if a.Kind != KStr || b.Kind != KStr {
		return Value{}, typeError(pos, "joinPath requires (Str, Str) arguments")
	}
	return Str(filepath.Join(a.StrOf(), b.StrOf())), nil
}
