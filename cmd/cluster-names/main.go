// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Command cluster-names prints a Graphviz graph linking the names of a street
list that are one edit apart, which makes likely duplicates and typos in a
corpus easy to spot:

	cluster-names data/ru_RU.txt | neato -Tsvg > clusters.svg

The list is read with the same rules as corpus files: comments, line
continuations and .include directives are honoured.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bastiangx/streetmangler/internal/logger"
	"github.com/bastiangx/streetmangler/pkg/dictionary"
	"github.com/bastiangx/streetmangler/pkg/trie"
	"github.com/charmbracelet/log"
)

// writeGraph writes every pair of names within one edit of each other,
// each pair once with the smaller name first.
func writeGraph(w io.Writer, names []string) error {
	set := make(map[string]struct{}, len(names))
	t := trie.New()
	for _, n := range names {
		if _, ok := set[n]; ok {
			continue
		}
		set[n] = struct{}{}
		t.Insert(n)
	}

	sorted := make([]string, 0, len(set))
	for n := range set {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph streets {")
	for _, n := range sorted {
		for _, similar := range t.FindApprox(n, 1) {
			if n < similar {
				fmt.Fprintf(bw, "\t%s -- %s\n", quote(n), quote(similar))
			}
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file>\n", os.Args[0])
		os.Exit(1)
	}
	logger.Setup(false)

	var names []string
	if err := dictionary.NewLoader().LoadFile(os.Args[1], func(n string) {
		names = append(names, n)
	}); err != nil {
		log.Fatalf("%v", err)
	}

	if err := writeGraph(os.Stdout, names); err != nil {
		log.Fatalf("%v", err)
	}
}
