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

// redact reads lines of text from stdin and rewrites every run of
// consecutive PERSON-tagged words as a single "[REDACTED]" placeholder,
// using Pattern.ReplaceAll to splice the match out of the token stream.
var redactPattern = tokregex.MustCompile(`[ner:"PERSON"]+`)

func redactLine(ctx context.Context, line string) (string, error) {
	anns := tagger.Annotate([]string{line})
	seq := corenlp.FromAnnotations(anns)

	out, err := redactPattern.Matcher(seq).ReplaceAll(ctx, func(m *tokregex.Matcher) []tokregex.Token {
		return []tokregex.Token{corenlp.MapToken{"word": "[REDACTED]"}}
	})
	if err != nil {
		return "", err
	}

	rendered := make([]string, len(out))
	for i, tok := range out {
		rendered[i], _ = tok.Get("word")
	}
	return strings.Join(rendered, " "), nil
}

func main() {
	buf := bufio.NewReader(os.Stdin)
	ctx := context.Background()
	for {
		fmt.Print("redact> ")
		line, _, err := buf.ReadLine()
		if err != nil {
			break
		}
		out, err := redactLine(ctx, string(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(out)
	}
}
