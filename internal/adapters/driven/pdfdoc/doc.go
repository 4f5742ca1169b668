// Package pdfdoc adapts seehuhn.de/go/pdf as the document object model
// behind the driven.Document port. It owns the embedded-file name tree and
// the keyword metadata signal; everything else about the PDF is left alone.
//
// The name tree is kept as a single flat Names array with a linear scan.
// Real PDF name trees are sorted for binary search, but this tree holds one
// well-known entry, so the flat form is sufficient and simpler to rewrite.
package pdfdoc
