package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/coreferentai/tokregex"
	"github.com/coreferentai/tokregex/corenlp"
	"github.com/coreferentai/tokregex/example/tagger"
)

// match is a REPL over tokregex.Compile: the first line of input is the
// pattern source, every line after that is a sentence to search. Each match
// is reported as its token span and the surface words it covers.
func main() {
	buf := bufio.NewReader(os.Stdin)

	fmt.Print("pattern> ")
	patLine, err := buf.ReadString('\n')
	if err != nil && patLine == "" {
		return
	}
	pat, err := tokregex.Compile(strings.TrimSpace(patLine))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}

	ctx := context.Background()
	for {
		fmt.Print("text> ")
		line, err := buf.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			continue
		}

		anns := tagger.Annotate([]string{line})
		seq := corenlp.FromAnnotations(anns)
		words := strings.Fields(line)

		spans, err := pat.Matcher(seq).FindAll(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		if len(spans) == 0 {
			fmt.Println("no match")
			continue
		}
		for _, sp := range spans {
			fmt.Printf("[%d,%d) %q\n", sp.Start, sp.End, strings.Join(words[sp.Start:sp.End], " "))
		}
	}
}
