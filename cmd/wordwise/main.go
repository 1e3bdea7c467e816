// Command wordwise builds and queries Wiktionary lexicon matchers.
//
// Commands:
//
//	extract   filter a Kaikki JSONL dump into a lexicon store
//	compile   compile a lexicon store into a matcher artifact
//	build     extract then compile
//	scan      find lexicon words in text using a matcher artifact
//	inspect   print lexicon store statistics
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "wordwise: %v\n", err)
		stop()
		os.Exit(1)
	}
}
