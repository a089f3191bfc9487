package pathutil_test

import (
	"fmt"

	"perangkum/internal/handler/http/pathutil"
)

func ExampleNormalizePath() {
	fmt.Println(pathutil.NormalizePath("/documents/report.pdf"))
	fmt.Println(pathutil.NormalizePath("/documents/notes.txt"))
	fmt.Println(pathutil.NormalizePath("/documents/notes.txt/summary"))
	fmt.Println(pathutil.NormalizePath("/summaries/feed"))

	// Output:
	// /documents/:name
	// /documents/:name
	// /documents/:name/summary
	// /summaries/feed
}
