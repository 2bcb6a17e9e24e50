package memindex

import "fmt"

// NewDemoIndex builds the 18-document fixture shared by the
// end-to-end test suite and the demo CLI: boost is doc id + 1 for
// every doc, mirroring spec scenarios exercising term, boolean,
// phrase, prefix, wildcard and range queries against the same corpus.
func NewDemoIndex() *Index {
	ix := NewIndex()

	field := map[int]string{
		1:  "word1 word2 quick brown fox",
		2:  "word1 word3",
		3:  "word1 word3",
		4:  "word1 word2 alpha word2 beta gamma",
		6:  "word1 word3",
		8:  demoDoc8Field(),
		11: "word1 word3",
		14: "word1 word3",
		16: "word1 quick very slow brown almost fox",
		17: "word1 quick top brown fox",
	}

	cat := map[int]string{
		1: "cat1/sub1", 2: "cat1/sub2", 3: "cat1/sub3", 4: "cat1/subsub2",
		13: "cat1/sub1", 14: "cat1/sub2", 15: "cat1/sub3", 16: "cat1/subAsub2",
	}

	date := func(i int) string { return fmt.Sprintf("200510%02d", i) }

	number := map[int]string{
		0: "0.5", 1: "-0.7", 4: "0.9", 10: "-0.3", 15: "1.0", 17: "-1.0",
		2: "5.0", 3: "-5.0", 5: "2.0", 6: "-2.0", 7: "3.0", 8: "-3.0",
		9: "4.0", 11: "-4.0", 12: "6.0", 13: "-6.0", 14: "7.0", 16: "-7.0",
	}

	for i := 0; i < 18; i++ {
		doc := Doc{}
		if f, ok := field[i]; ok {
			doc["field"] = f
		} else {
			doc["field"] = "word1"
		}
		if c, ok := cat[i]; ok {
			doc["cat"] = c
		} else {
			doc["cat"] = "cat2/misc"
		}
		doc["date"] = date(i)
		doc["number"] = number[i]
		ix.Add(doc, float32(i+1))
	}
	return ix
}

func demoDoc8Field() string {
	s := "word1 word3"
	for i := 1; i <= 16; i++ {
		s += fmt.Sprintf(" filler%d", i)
	}
	s += " word2 filler17"
	return s
}
