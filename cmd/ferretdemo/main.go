package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kittclouds/ferret/internal/ferret/config"
	"github.com/kittclouds/ferret/internal/ferret/memindex"
	"github.com/kittclouds/ferret/internal/ferret/query"
	"github.com/kittclouds/ferret/internal/ferret/search"
)

func main() {
	configPath := flag.String("config", "", "path to a "+config.ConfigFileName+"-style tuning file; empty uses built-in defaults")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	reader := memindex.NewDemoIndex().Reader()
	s := search.NewSearcherWithConfig(reader, cfg)

	fmt.Println("TermQuery field:word2")
	runScored(s, query.NewTerm("field", "word2"))

	fmt.Println("\nBooleanQuery +field:word1 +field:word3")
	runScored(s, query.NewBoolean(
		query.BooleanClause{Query: query.NewTerm("field", "word1"), Occur: query.Must},
		query.BooleanClause{Query: query.NewTerm("field", "word3"), Occur: query.Must},
	))

	fmt.Println("\nPhraseQuery field:\"quick brown fox\"")
	runScored(s, query.NewPhrase("field", "quick", "brown", "fox"))

	fmt.Println("\nPhraseQuery field:\"quick brown fox\"~4")
	runScored(s, query.NewPhrase("field", "quick", "brown", "fox").WithSlop(4))

	fmt.Println("\nPrefixQuery cat:cat1/sub*")
	runUnscored(s, query.NewPrefix("cat", "cat1/sub"))

	fmt.Println("\nWildcardQuery cat:cat1*/s*sub2")
	runUnscored(s, query.NewWildcard("cat", "cat1*/s*sub2"))

	fmt.Println("\nRangeQuery date:[20051006..20051010]")
	runUnscored(s, query.NewRange("date", "20051006", "20051010", true, true))

	fmt.Println("\nTypedRangeQuery number:[-1.0..1.0]")
	runUnscored(s, query.NewTypedRange("number", "-1.0", "1.0", true, true, query.NumFloat))

	fmt.Println("\nsearch_unscored field:word1 offset=12 limit=5")
	docs, err := s.SearchUnscoredRange(query.NewTerm("field", "word1"), 12, 5)
	if err != nil {
		log.Fatalf("search_unscored failed: %v", err)
	}
	fmt.Printf("  %v\n", docs)

	fmt.Println("\nExplain field:word2 doc=4")
	w, err := s.CreateNormalizedWeight(query.NewTerm("field", "word2"))
	if err != nil {
		log.Fatalf("create_weight failed: %v", err)
	}
	ex, err := w.Explain(reader, 4)
	if err != nil {
		log.Fatalf("explain failed: %v", err)
	}
	fmt.Print(ex.String())

	fmt.Println("\nsearch_sorted field:word1 by number ascending, first 5")
	td, err := s.SearchSorted(query.NewTerm("field", "word1"), 0, 5, search.NumericFieldComparator("number", false))
	if err != nil {
		log.Fatalf("search_sorted failed: %v", err)
	}
	for _, h := range td.Hits {
		fmt.Printf("  doc=%d score=%.4f\n", h.Doc, h.Score)
	}
}

func runScored(s *search.Searcher, q query.Query) {
	td, err := s.Search(q, 10)
	if err != nil {
		log.Fatalf("search failed for %s: %v", q.String(), err)
	}
	for _, h := range td.Hits {
		fmt.Printf("  doc=%d score=%.4f\n", h.Doc, h.Score)
	}
}

func runUnscored(s *search.Searcher, q query.Query) {
	docs, err := s.SearchUnscored(q)
	if err != nil {
		log.Fatalf("search_unscored failed for %s: %v", q.String(), err)
	}
	fmt.Printf("  %v\n", docs)
}
