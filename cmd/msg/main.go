// Command msg runs MindScript programs: as a file interpreter when given a
// path argument, or as a line-buffered REPL otherwise.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mindscript-lang/mindscript"
)

func main() {
	ip := mindscript.NewInterpreter()
	if len(os.Args) > 1 {
		runFile(ip, os.Args[1])
		return
	}
	repl(ip)
}

func runFile(ip *mindscript.Interpreter, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	v, err := ip.RunSource(string(src), path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if v != mindscript.Null {
		fmt.Println(mindscript.Stringify(v))
	}
}

func repl(ip *mindscript.Interpreter) {
	stdin := bufio.NewScanner(os.Stdin)
	fmt.Print("msg> ")
	for stdin.Scan() {
		line := stdin.Text()
		if line == "" {
			fmt.Print("msg> ")
			continue
		}
		v, err := ip.RunSource(line, "<repl>")
		if err != nil {
			fmt.Println(err)
		} else {
			fmt.Println(mindscript.Stringify(v))
		}
		fmt.Print("msg> ")
	}
	fmt.Println()
}
