package mindscript

import (
	"time"

	"github.com/darkerbit/datesaurus"
	"github.com/variadico/lctime"
)

// installTimeBuiltins seeds the clock/formatting helpers, grounded on the
// Date methods of the teacher's coreext/date package: now/dateFormat use
// lctime's locale-aware strftime, dateParse leans on datesaurus for the
// free-form strings a locale-aware strftime format can't round-trip.
func installTimeBuiltins(env *Env) {
	env.Define("now", native(biNow))
	env.Define("dateFormat", nativeN(2, biDateFormat))
	env.Define("dateParse", native(biDateParse))
}

// biNow returns the current time as milliseconds since the Unix epoch.
func biNow(ip *Interpreter, _ Value, pos Position) (Value, error) {
	return Int(time.Now().UnixMilli()), nil
}

// biDateFormat renders a millisecond timestamp using an ANSI C strftime
// format string, e.g. dateFormat(now(), "%Y-%m-%d %H:%M:%S").
func biDateFormat(ip *Interpreter, args []Value, pos Position) (Value, error) {
	ms, format := args[0], args[1]
	if ms.Kind != KInt || format.Kind != KStr {
		return Value{}, typeError(pos, "dateFormat requires (Int, Str) arguments")
	}
	t := time.UnixMilli(ms.IntOf()).UTC()
	return Str(lctime.Strftime(format.StrOf(), t)), nil
}

// biDateParse parses a free-form date string, returning null rather than
// raising when the string isn't recognized.
func biDateParse(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KStr {
		return Value{}, typeError(pos, "dateParse requires a Str argument, got %s", arg.Kind)
	}
	t, err := datesaurus.Parse(arg.StrOf())
	if err != nil {
		return Null, nil
	}
	return Int(t.UnixMilli()), nil
}
